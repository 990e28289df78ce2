package helpers

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-playground/validator/v10"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712345/wanderlust/listings/abc.jpg", "wanderlust/listings/abc", true},
		{"https://res.cloudinary.com/demo/image/upload/sample.png", "sample", true},
		{"https://example.com/image/upload/v1/a.jpg", "", false},
		{"https://res.cloudinary.com/demo/image/fetch/a.jpg", "", false},
		{"::not a url", "", false},
	}
	for _, tt := range tests {
		got, ok := PublicIDFromURL(tt.url)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PublicIDFromURL(%q) = %q, %v; want %q, %v", tt.url, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsRemoteImage(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"https://images.example.com/a.jpg", true},
		{"http://images.example.com/a.jpg?w=800", true},
		{"data:image/png;base64,iVBORw0KGgo=", true},
		{"/proc/self/environ", false},
		{"../.env.local", false},
		{"a.jpg", false},
		{"file:///etc/passwd", false},
		{"ftp://images.example.com/a.jpg", false},
		{"https://", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsRemoteImage(tt.src); got != tt.want {
			t.Errorf("IsRemoteImage(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestCloudinaryStoreRefusesLocalFiles(t *testing.T) {
	cld, err := cloudinary.NewFromParams("demo", "key", "secret")
	if err != nil {
		t.Fatal(err)
	}
	store := NewCloudinaryStore(cld)

	urls, err := store.Upload(context.Background(), []string{"/nonexistent/secret.env"}, ListingFolder)
	if !errors.Is(err, ErrLocalImage) {
		t.Fatalf("err = %v, want ErrLocalImage", err)
	}
	if urls != nil {
		t.Errorf("urls = %v", urls)
	}
}

func TestRemoveDuplicates(t *testing.T) {
	got := RemoveDuplicates([]string{" Wifi ", "wifi", "", "Pool", "pool  ", "Free  parking"})
	want := []string{"Wifi", "Pool", "Free parking"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestIsPasswordStrong(t *testing.T) {
	if IsPasswordStrong("short1!") {
		t.Error("short password accepted")
	}
	if IsPasswordStrong("alllowercase1!") {
		t.Error("password without upper case accepted")
	}
	if !IsPasswordStrong("Wander1ust!") {
		t.Error("strong password rejected")
	}
}

type validationInput struct {
	Title string  `json:"title" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
	Name  string  `json:"name" validate:"omitempty,min=3"`
}

func TestValidationMessages(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})

	err := v.Struct(validationInput{Price: -1, Name: "ab"})
	got := ValidationMessages(err)
	want := []string{
		"title is required",
		"price must be at least 0",
		"name must be at least 3 characters",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

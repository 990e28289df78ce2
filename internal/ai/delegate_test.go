package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewDelegate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		wantT   string
	}{
		{"empty provider", Config{}, false, "unconfigured"},
		{"none", Config{Provider: "none"}, false, "unconfigured"},
		{"openai", Config{Provider: "openai", OpenAIKey: "sk-test"}, false, "openai"},
		{"openai upper case", Config{Provider: "OpenAI", OpenAIKey: "sk-test"}, false, "openai"},
		{"openai missing key", Config{Provider: "openai"}, true, ""},
		{"anthropic", Config{Provider: "anthropic", AnthropicKey: "key"}, false, "anthropic"},
		{"anthropic missing key", Config{Provider: "anthropic"}, true, ""},
		{"unknown", Config{Provider: "gemini", OpenAIKey: "k"}, true, ""},
		{"rate limited", Config{Provider: "openai", OpenAIKey: "k", RateLimit: 2}, false, "limited"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDelegate(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewDelegate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			var got string
			switch d.(type) {
			case unconfigured:
				got = "unconfigured"
			case *OpenAI:
				got = "openai"
			case *Anthropic:
				got = "anthropic"
			case *limited:
				got = "limited"
			}
			if got != tt.wantT {
				t.Errorf("delegate type = %s, want %s", got, tt.wantT)
			}
		})
	}
}

func TestUnconfigured_ReturnsProviderError(t *testing.T) {
	d, err := NewDelegate(Config{Provider: "none"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = d.Complete(context.Background(), Prompt(TaskChat, "hello"))
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("error %v is not a *ProviderError", err)
	}
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error %v should wrap ErrNotConfigured", err)
	}
}

type stubDelegate struct {
	calls int
	reply string
}

func (s *stubDelegate) Complete(ctx context.Context, req Request) (string, error) {
	s.calls++
	return s.reply, nil
}

func TestWithRateLimit(t *testing.T) {
	stub := &stubDelegate{reply: "ok"}
	d := WithRateLimit(stub, 1, 1)

	got, err := d.Complete(context.Background(), Prompt(TaskTopics, "x"))
	if err != nil || got != "ok" {
		t.Fatalf("first call = %q, %v", got, err)
	}

	// the single token is spent, so a short deadline cannot be met
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = d.Complete(ctx, Prompt(TaskTopics, "x"))
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("throttled call error = %v, want *ProviderError", err)
	}
	if stub.calls != 1 {
		t.Errorf("backend calls = %d, want 1", stub.calls)
	}
}

func TestPrompt(t *testing.T) {
	req := Prompt(TaskTitles, "five titles please")
	if req.MaxTokens != 300 || req.Temperature != 0.9 {
		t.Errorf("task settings not applied: %+v", req)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != RoleUser {
		t.Errorf("messages = %+v", req.Messages)
	}
}

func TestOpenAI_Complete(t *testing.T) {
	var body struct {
		Model       string  `json:"model"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Try the old town."},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`)
	}))
	defer srv.Close()

	d := NewOpenAI("sk-test", "gpt-test", srv.URL+"/v1")
	got, err := d.Complete(context.Background(), Request{
		System:      "be brief",
		Messages:    []Message{{Role: RoleUser, Content: "hi"}, {Role: RoleAssistant, Content: "hello"}, {Role: RoleUser, Content: "where to go?"}},
		MaxTokens:   64,
		Temperature: 0.5,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "Try the old town." {
		t.Errorf("Complete() = %q", got)
	}

	if body.Model != "gpt-test" || body.MaxTokens != 64 {
		t.Errorf("request body = %+v", body)
	}
	if len(body.Messages) != 4 || body.Messages[0].Role != "system" || body.Messages[2].Role != "assistant" {
		t.Errorf("messages = %+v", body.Messages)
	}
}

func TestOpenAI_ErrorIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"slow down","type":"rate_limit"}}`)
	}))
	defer srv.Close()

	d := NewOpenAI("sk-test", "", srv.URL+"/v1")
	_, err := d.Complete(context.Background(), Prompt(TaskChat, "hi"))
	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Provider != ProviderOpenAI {
		t.Fatalf("error = %v, want openai *ProviderError", err)
	}
}

func TestAnthropic_Complete(t *testing.T) {
	var body struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		System    []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"Lisbon in May."}],
			"stop_reason":"end_turn","stop_sequence":null,
			"usage":{"input_tokens":3,"output_tokens":4}}`)
	}))
	defer srv.Close()

	d := NewAnthropic("key", "claude-test", srv.URL)
	got, err := d.Complete(context.Background(), Request{
		System:      "travel assistant",
		Messages:    []Message{{Role: RoleUser, Content: "where?"}},
		MaxTokens:   128,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "Lisbon in May." {
		t.Errorf("Complete() = %q", got)
	}
	if body.Model != "claude-test" || body.MaxTokens != 128 {
		t.Errorf("request body = %+v", body)
	}
	if len(body.System) != 1 || body.System[0].Text != "travel assistant" {
		t.Errorf("system = %+v", body.System)
	}
	if len(body.Messages) != 1 || body.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", body.Messages)
	}
}

func TestAnthropic_ErrorIsProviderError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"bad key"}}`)
	}))
	defer srv.Close()

	d := NewAnthropic("bad", "", srv.URL)
	_, err := d.Complete(context.Background(), Prompt(TaskChat, "hi"))
	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Provider != ProviderAnthropic {
		t.Fatalf("error = %v, want anthropic *ProviderError", err)
	}
	if calls != 1 {
		t.Errorf("backend hit %d times, want exactly one call", calls)
	}
}

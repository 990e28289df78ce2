package helpers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const ListingFolder = "wanderlust/listings"

var ErrLocalImage = errors.New("image must be an http(s) url or a base64 data uri")

// ImageStore uploads listing images and removes them again.
type ImageStore interface {
	Upload(ctx context.Context, paths []string, folder string) ([]string, error)
	Delete(ctx context.Context, urls []string) error
}

// IsRemoteImage reports whether src is an http(s) url or a base64 data uri.
// The SDK opens any other string as a local file, so only these are ever
// handed to it.
func IsRemoteImage(src string) bool {
	if api.IsBase64Data(src) {
		return true
	}
	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary) *CloudinaryStore {
	return &CloudinaryStore{cld: cld}
}

// Upload sends every non-blank path and returns the secure urls in order.
// On failure the images uploaded so far are destroyed before returning.
func (s *CloudinaryStore) Upload(ctx context.Context, paths []string, folder string) ([]string, error) {
	urls := make([]string, 0, len(paths))
	for i, filePath := range paths {
		if strings.TrimSpace(filePath) == "" {
			slog.Debug("skipping empty image path", "index", i)
			continue
		}

		var (
			res *uploader.UploadResult
			err error
		)
		if IsRemoteImage(filePath) {
			res, err = s.cld.Upload.Upload(ctx, filePath, uploader.UploadParams{
				Folder: folder,
				Tags:   []string{"wanderlust"},
			})
			if err == nil && res.Error.Message != "" {
				err = errors.New(res.Error.Message)
			}
		} else {
			err = ErrLocalImage
		}
		if err != nil {
			if cleanupErr := s.Delete(context.WithoutCancel(ctx), urls); cleanupErr != nil {
				slog.Warn("failed to clean up partial upload", "error", cleanupErr)
			}
			return nil, fmt.Errorf("failed to upload image %d: %w", i, err)
		}
		urls = append(urls, res.SecureURL)
	}
	return urls, nil
}

// Delete destroys each image; urls that are not Cloudinary urls are skipped.
func (s *CloudinaryStore) Delete(ctx context.Context, urls []string) error {
	var errs []error
	for _, u := range urls {
		publicID, ok := PublicIDFromURL(u)
		if !ok {
			continue
		}
		if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
			errs = append(errs, fmt.Errorf("failed to destroy %s: %v", publicID, err))
		}
	}
	return errors.Join(errs...)
}

// PublicIDFromURL turns
// https://res.cloudinary.com/demo/image/upload/v17/wanderlust/listings/abc.jpg
// into wanderlust/listings/abc.
func PublicIDFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || !strings.HasSuffix(u.Host, "cloudinary.com") {
		return "", false
	}

	_, rest, found := strings.Cut(u.Path, "/upload/")
	if !found || rest == "" {
		return "", false
	}

	parts := strings.Split(rest, "/")
	if len(parts) > 1 && isVersionSegment(parts[0]) {
		parts = parts[1:]
	}
	id := strings.Join(parts, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", false
	}
	return id, true
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

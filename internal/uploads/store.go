package uploads

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

// ImageStore persists uploaded images and tells where they can be fetched.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) error
	URL(name string) string
}

// LocalStore keeps images in a directory served by the application.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore returns a store writing into dir and linking under urlPrefix.
func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{dir: dir, urlPrefix: urlPrefix}
}

// Dir is the directory images are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes r to name inside the store directory, creating the directory when absent.
func (s *LocalStore) Save(_ context.Context, name string, r io.Reader) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid image name %q", name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("write image: %w", err)
	}
	return f.Close()
}

// URL returns the public path of name.
func (s *LocalStore) URL(name string) string {
	if name == "" {
		return ""
	}
	return path.Join(s.urlPrefix, url.PathEscape(name))
}

// SaveUpload stores fh in store when its extension is allowed. It returns the
// stored name, or an empty name when the upload was skipped.
func SaveUpload(ctx context.Context, store ImageStore, fh *multipart.FileHeader, exts []string, now time.Time) (string, error) {
	if fh == nil || fh.Filename == "" || !Allowed(fh.Filename, exts) {
		return "", nil
	}
	safe := SecureFilename(fh.Filename)
	if safe == "" {
		return "", nil
	}
	name := StampedName(safe, now)

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	if err := store.Save(ctx, name, f); err != nil {
		return "", err
	}
	return name, nil
}

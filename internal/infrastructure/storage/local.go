// Package storage persists uploaded issue images on the local filesystem.
// Files are served back by the static /uploads route; the stored reference is
// server-relative so the read path can absolutize it per request host.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore writes uploads into a single directory with generated,
// collision-resistant names.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the uploads directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the directory uploads are written to.
func (s *LocalStore) Dir() string { return s.dir }

// Save writes the file fully before returning, so the caller can safely
// persist a record referencing it. The returned reference is the path the
// static route serves.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitize(originalName))
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("flush upload: %w", err)
	}
	return "/uploads/" + name, nil
}

// sanitize strips any path components and whitespace from a client-supplied
// filename.
func sanitize(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	base = strings.ReplaceAll(base, " ", "_")
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "upload"
	}
	return base
}

package ports

import (
	"context"
	"io"
)

// FileStore persists uploaded issue images. Save must complete before the
// issue record referencing the file is written.
type FileStore interface {
	// Save writes the file and returns the reference to store on the issue
	// (a server-relative path such as "/uploads/169..._pothole.jpg").
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
}

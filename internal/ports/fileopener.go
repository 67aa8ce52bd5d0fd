package ports

import (
	"context"
	"io"
)

// Meta describes where a source document came from.
type Meta struct {
	Source      string
	ContentType string
	Size        int64
	Bucket      string
	Key         string
	Path        string
}

type FileOpener interface {
	Open(ctx context.Context, filePath string) (io.ReadCloser, Meta, error)
}

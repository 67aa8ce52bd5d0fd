package opener

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"

	"kameo_report/internal/ports"
)

var (
	ErrHTTPNotConfigured = errors.New("http opener not configured")
	ErrS3NotConfigured   = errors.New("s3 opener not configured")
	ErrFileNotConfigured = errors.New("local file opener not configured")
	ErrEmptySourcePath   = errors.New("empty source path")
)

// CompoundOpener picks an opener from the path: http(s):// URLs, s3://bucket/key,
// file:// URLs and plain local paths.
type CompoundOpener struct {
	HTTP *HTTPOpener
	S3   *S3Opener
	File *FileOpener
}

func NewCompoundOpener(httpOp *HTTPOpener, s3Op *S3Opener, fileOp *FileOpener) *CompoundOpener {
	return &CompoundOpener{HTTP: httpOp, S3: s3Op, File: fileOp}
}

func (c *CompoundOpener) Open(ctx context.Context, filePath string) (io.ReadCloser, ports.Meta, error) {
	fp := strings.TrimSpace(filePath)

	switch {
	case fp == "":
		return nil, ports.Meta{}, ErrEmptySourcePath

	case strings.HasPrefix(fp, "http://") || strings.HasPrefix(fp, "https://"):
		if c.HTTP == nil {
			return nil, ports.Meta{}, ErrHTTPNotConfigured
		}
		return c.HTTP.Open(ctx, fp)

	case strings.HasPrefix(fp, "s3://"):
		if c.S3 == nil {
			return nil, ports.Meta{}, ErrS3NotConfigured
		}
		bkt, key, err := parseS3URL(fp)
		if err != nil {
			return nil, ports.Meta{}, err
		}
		return c.S3.Open(ctx, bkt, key)

	default:
		if c.File == nil {
			return nil, ports.Meta{}, ErrFileNotConfigured
		}
		p, err := localPath(fp)
		if err != nil {
			return nil, ports.Meta{}, err
		}
		return c.File.Open(ctx, p)
	}
}

func parseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", errors.New("scheme must be s3")
	}
	bucket = u.Host
	key = path.Clean(strings.TrimPrefix(u.Path, "/"))
	if bucket == "" || key == "" || key == "." || key == "/" {
		return "", "", errors.New("empty bucket or key")
	}
	return bucket, key, nil
}

func localPath(raw string) (string, error) {
	if !strings.HasPrefix(raw, "file://") {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Path == "" {
		return "", errors.New("empty file path")
	}
	return u.Path, nil
}

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"

	"kameo_report/internal/models"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Encode renders t in the given format.
func Encode(t Table, format string) ([]byte, string, error) {
	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		if err := WriteCSV(&buf, t); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), contentTypeCSV, nil
	case FormatXLSX:
		if err := WriteXLSX(&buf, t); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), contentTypeXLSX, nil
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ValidateFormats rejects anything but csv and xlsx.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if f != FormatCSV && f != FormatXLSX {
			return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
		}
	}
	return nil
}

// LocalSink writes every table in every format into Dir.
type LocalSink struct {
	Dir     string
	Formats []string
}

func (s LocalSink) Name() string { return "local" }

func (s LocalSink) Write(_ context.Context, _ string, rep *models.Report) ([]string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %q: %w", s.Dir, err)
	}
	var written []string
	for _, t := range Tables(rep) {
		for _, format := range s.Formats {
			data, _, err := Encode(t, format)
			if err != nil {
				return written, err
			}
			p := filepath.Join(s.Dir, t.Name+"."+format)
			if err := os.WriteFile(p, data, 0o644); err != nil {
				return written, fmt.Errorf("write %q: %w", p, err)
			}
			written = append(written, p)
		}
	}
	return written, nil
}

type ObjectPutter interface {
	PutBytes(ctx context.Context, key string, data []byte, contentType string) (minio.UploadInfo, error)
}

// S3Sink uploads the tables to <Prefix>/<run id>/<name>.<format> in Bucket.
type S3Sink struct {
	Store   ObjectPutter
	Bucket  string
	Prefix  string
	Formats []string
}

func (s S3Sink) Name() string { return "s3" }

func (s S3Sink) Write(ctx context.Context, runID string, rep *models.Report) ([]string, error) {
	var written []string
	for _, t := range Tables(rep) {
		for _, format := range s.Formats {
			data, ct, err := Encode(t, format)
			if err != nil {
				return written, err
			}
			key := path.Join(s.Prefix, runID, t.Name+"."+format)
			if _, err := s.Store.PutBytes(ctx, key, data, ct); err != nil {
				return written, fmt.Errorf("s3 put %q: %w", key, err)
			}
			written = append(written, fmt.Sprintf("s3://%s/%s", s.Bucket, key))
		}
	}
	return written, nil
}

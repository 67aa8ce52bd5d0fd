package opener

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"kameo_report/internal/ports"
)

// FileOpener reads sources from the local filesystem. Relative paths are
// resolved against Root when it is set.
type FileOpener struct {
	Root string
}

func NewFileOpener(root string) *FileOpener { return &FileOpener{Root: root} }

func (f *FileOpener) Open(_ context.Context, p string) (io.ReadCloser, ports.Meta, error) {
	full := p
	if f.Root != "" && !filepath.IsAbs(p) {
		full = filepath.Join(f.Root, p)
	}
	fh, err := os.Open(full)
	if err != nil {
		return nil, ports.Meta{}, fmt.Errorf("open %s: %w", full, err)
	}
	st, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, ports.Meta{}, fmt.Errorf("stat %s: %w", full, err)
	}
	if st.IsDir() {
		fh.Close()
		return nil, ports.Meta{}, fmt.Errorf("%s is a directory", full)
	}
	return fh, ports.Meta{
		Source:      "file",
		ContentType: mime.TypeByExtension(filepath.Ext(full)),
		Size:        st.Size(),
		Path:        full,
	}, nil
}

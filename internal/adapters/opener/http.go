package opener

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"kameo_report/internal/ports"
)

type HTTPOpener struct {
	Client *http.Client
	Log    zerolog.Logger
}

func NewHTTPOpener(cli *http.Client, log zerolog.Logger) *HTTPOpener {
	if cli == nil {
		cli = &http.Client{}
	}
	return &HTTPOpener{Client: cli, Log: log.With().Str("opener", "http").Logger()}
}

func (h *HTTPOpener) Open(ctx context.Context, url string) (io.ReadCloser, ports.Meta, error) {
	h.Log.Debug().Str("url", url).Msg("open")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ports.Meta{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, ports.Meta{}, fmt.Errorf("get %s: %w", url, err)
	}
	ct := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		h.Log.Warn().Int("status", resp.StatusCode).Str("content_type", ct).Msg("open failed")
		return nil, ports.Meta{}, fmt.Errorf("http status %d", resp.StatusCode)
	}
	size := resp.ContentLength
	if size < 0 {
		size = -1
	}
	h.Log.Debug().Str("content_type", ct).Int64("size", size).Msg("opened")
	return resp.Body, ports.Meta{
		Source:      "https",
		ContentType: ct,
		Size:        size,
		Path:        url,
	}, nil
}

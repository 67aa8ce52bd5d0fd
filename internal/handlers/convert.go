package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"kameo_report/internal/services/converter"
)

const defaultConvertTimeout = 15 * time.Minute

type convertRequest struct {
	FilePath   string `json:"file_path"`
	TimeoutMin int    `json:"timeout_minutes,omitempty"`
}

// Convert starts a conversion of file_path in the background and answers
// with the run id right away.
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.fail(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	var req convertRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		h.Log.Warn().Err(err).Msg("convert: bad JSON")
		h.fail(w, http.StatusBadRequest, "bad JSON: "+err.Error())
		return
	}
	req.FilePath = strings.TrimSpace(req.FilePath)
	if req.FilePath == "" {
		h.fail(w, http.StatusBadRequest, "file_path is required")
		return
	}
	if h.Converter == nil {
		h.fail(w, http.StatusServiceUnavailable, "converter not configured")
		return
	}

	timeout := defaultConvertTimeout
	if req.TimeoutMin > 0 {
		timeout = time.Duration(req.TimeoutMin) * time.Minute
	}
	runID := uuid.NewString()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		// the service logs the outcome
		_, _ = h.Converter.Convert(ctx, converter.Request{FilePath: req.FilePath, RunID: runID})
	}()

	h.JSON(w, http.StatusAccepted, map[string]any{
		"status":    "started",
		"run_id":    runID,
		"file_path": req.FilePath,
	})
}

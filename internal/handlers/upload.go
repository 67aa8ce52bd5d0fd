package handlers

import (
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
)

// Upload accepts multipart/form-data with a `file` field and stores it in S3
// under sources/. The returned path can be passed to /convert.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodPost {
		h.fail(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	if h.Config == nil || h.Config.S3 == nil {
		h.fail(w, http.StatusServiceUnavailable, "s3 is not enabled")
		return
	}
	store := h.Config.S3

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		h.Log.Warn().Err(err).Msg("upload: parse multipart")
		h.fail(w, http.StatusBadRequest, "bad multipart: "+err.Error())
		return
	}

	f, fh, err := r.FormFile("file")
	if err != nil {
		h.fail(w, http.StatusBadRequest, "file is required")
		return
	}
	defer f.Close()

	key := fmt.Sprintf("sources/%d-%s", time.Now().UnixNano(), path.Base(fh.Filename))
	size := fh.Size
	if size <= 0 {
		size = -1
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}

	info, err := store.Client.PutObject(r.Context(), store.Bucket, key, f, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		h.Log.Error().Err(err).Str("key", key).Msg("upload: s3 put")
		h.fail(w, http.StatusInternalServerError, "failed to store file: "+err.Error())
		return
	}

	s3path := fmt.Sprintf("s3://%s/%s", store.Bucket, key)
	h.Log.Info().Str("path", s3path).Int64("size", info.Size).Msg("source uploaded")

	w.Header().Set("Access-Control-Allow-Origin", "*")
	h.JSON(w, http.StatusCreated, map[string]any{"path": s3path, "size": info.Size})
}

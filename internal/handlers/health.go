package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"
)

type healthResp struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors,omitempty"`
}

// Health pings the enabled backends. A service without backends is healthy.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := healthResp{OK: true}
	if h.Config != nil {
		if err := h.Config.CheckConnections(ctx); err != nil {
			resp.OK = false
			resp.Errors = strings.Split(err.Error(), "\n")
		}
	}

	if !resp.OK {
		h.Log.Warn().Strs("errors", resp.Errors).Msg("health check failed")
		h.JSON(w, http.StatusInternalServerError, resp)
		return
	}
	h.JSON(w, http.StatusOK, resp)
}

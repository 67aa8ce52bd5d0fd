package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"kameo_report/internal/config"
	"kameo_report/internal/logger"
	"kameo_report/internal/services/converter"
)

type Handlers struct {
	Config    *config.Config
	Converter *converter.Service

	Log zerolog.Logger
}

func New(cfg *config.Config, svc *converter.Service, log zerolog.Logger) *Handlers {
	return &Handlers{
		Config:    cfg,
		Converter: svc,
		Log:       logger.Component(log, "http"),
	}
}

func (h *Handlers) JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handlers) fail(w http.ResponseWriter, code int, msg string) {
	h.JSON(w, code, map[string]string{"error": msg})
}

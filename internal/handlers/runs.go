package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/mongo"

	"kameo_report/internal/repository/runs"
)

const defaultRunsLimit = 50

// Runs returns one run by ?id= or the latest runs, newest first.
func (h *Handlers) Runs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.fail(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	if h.Config == nil || !h.Config.Mongo.Ready() {
		h.fail(w, http.StatusServiceUnavailable, "run journal is not enabled")
		return
	}

	q := r.URL.Query()
	if id := q.Get("id"); id != "" {
		rec, err := runs.FindRunByID(r.Context(), h.Config.Mongo, id)
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.fail(w, http.StatusNotFound, "run not found")
			return
		}
		if err != nil {
			h.Log.Error().Err(err).Str("run_id", id).Msg("find run")
			h.fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.JSON(w, http.StatusOK, rec)
		return
	}

	limit := int64(defaultRunsLimit)
	if s := q.Get("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			h.fail(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	recs, err := runs.ListRuns(r.Context(), h.Config.Mongo, limit)
	if err != nil {
		h.Log.Error().Err(err).Msg("list runs")
		h.fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.JSON(w, http.StatusOK, recs)
}

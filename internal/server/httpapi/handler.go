// Package httpapi serves the plain HTTP probes: liveness and queue depths.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/queue"
)

type Deps struct {
	Broker *queue.Broker
	Log    logging.Logger
}

// QueueView is the depth report of one queue.
type QueueView struct {
	Name   models.QueueName        `json:"name"`
	Counts map[models.JobState]int `json:"counts"`
	Depth  int                     `json:"depth"`
	Failed int                     `json:"failed"`
}

func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Get("/queues", handleQueues(deps))
	r.Get("/queues/{name}", handleQueue(deps))

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func view(name models.QueueName, counts map[models.JobState]int) QueueView {
	return QueueView{
		Name:   name,
		Counts: counts,
		Depth:  counts[models.JobWaiting] + counts[models.JobDelayed],
		Failed: counts[models.JobFailed],
	}
}

func handleQueues(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.Broker.Stats(r.Context())
		if err != nil {
			deps.Log.Error(r.Context(), "queue stats failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": common.ErrorInternal.Error()})
			return
		}

		out := make([]QueueView, 0, len(queue.Queues))
		for _, name := range queue.Queues {
			out = append(out, view(name, stats[name]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleQueue(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := models.QueueName(chi.URLParam(r, "name"))

		q, err := deps.Broker.Lookup(name)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown queue"})
			return
		}

		counts, err := q.Counts(r.Context())
		if err != nil {
			deps.Log.Error(r.Context(), "queue counts failed", "queue", string(name), "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": common.ErrorInternal.Error()})
			return
		}
		writeJSON(w, http.StatusOK, view(name, counts))
	}
}

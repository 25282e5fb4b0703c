// Package api exposes word count jobs over HTTP+JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dtnitsch/mr-wordcount/models"
	"github.com/dtnitsch/mr-wordcount/pkg/jobs"
	"github.com/gorilla/mux"
)

// JobService is the part of jobs.Runner the handlers need.
type JobService interface {
	Submit(ctx context.Context, text string) (models.RunResponse, error)
	TopWords(ctx context.Context, jobID string, top int) ([]models.WordCount, error)
}

type handler struct {
	jobs   JobService
	logger *slog.Logger
}

// NewRouter wires the health, run and result endpoints.
func NewRouter(svc JobService, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{jobs: svc, logger: logger}

	r := mux.NewRouter()
	r.Use(h.logRequests)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/run", h.run).Methods(http.MethodPost)
	r.HandleFunc("/result/{job_id}", h.result).Methods(http.MethodGet)
	return r
}

// NewHTTPServer returns a server for addr with conservative timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}

func (h *handler) run(w http.ResponseWriter, r *http.Request) {
	var req models.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.jobs.Submit(r.Context(), req.Text)
	switch {
	case errors.Is(err, jobs.ErrTextRequired):
		h.fail(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.fail(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *handler) result(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["job_id"]

	top := jobs.DefaultTop
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.fail(w, r, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		top = n
	}

	words, err := h.jobs.TopWords(r.Context(), jobID, top)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if words == nil {
		words = []models.WordCount{}
	}

	writeJSON(w, http.StatusOK, models.ResultResponse{JobID: jobID, TopWords: words})
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, status int, detail string) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		"method", r.Method, "path", r.URL.Path, "status", status, "detail", detail)
	writeJSON(w, status, models.ErrorResponse{Detail: detail})
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

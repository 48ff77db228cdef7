// Package httphandler is the HTTP driving adapter that serves the REST API.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/libreshift/libreshift/internal/application"
	"github.com/libreshift/libreshift/internal/domain/model"
	"github.com/libreshift/libreshift/internal/domain/port/driven"
)

// maxRequestBody caps liberate request bodies at 32 MiB; projects are text
// file sets, not archives.
const maxRequestBody = 32 << 20

// defaultJobListLimit bounds the job-history listing.
const defaultJobListLimit = 50

// HostFactory builds a GitHost client bound to one caller's token. The
// pipeline is request-scoped, so each liberate call gets its own client.
type HostFactory func(token string) driven.GitHost

// Handler serves the liberation API.
type Handler struct {
	newHost      HostFactory
	jobs         driven.JobStore
	defaultToken string
	logger       *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. defaultToken
// may be empty, in which case every request must carry a bearer token.
func NewHandler(newHost HostFactory, jobs driven.JobStore, defaultToken string, logger *slog.Logger) *Handler {
	return &Handler{
		newHost:      newHost,
		jobs:         jobs,
		defaultToken: defaultToken,
		logger:       logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/liberate", h.Liberate)
	mux.HandleFunc("GET /api/v1/jobs", h.ListJobs)
	mux.HandleFunc("GET /api/v1/jobs/{id}", h.GetJob)
	mux.HandleFunc("GET /api/v1/jobs/{id}/report", h.GetJobReport)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Liberate runs the whole pipeline for one project and returns the publish
// result. The write-capable token comes from the Authorization header,
// falling back to the configured default.
func (h *Handler) Liberate(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		token = h.defaultToken
	}
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req LiberateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	projectName := strings.TrimSpace(req.ProjectName)
	if projectName == "" {
		writeError(w, http.StatusBadRequest, "project_name is required")
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, "files must not be empty")
		return
	}

	dest, err := model.ParseDestination(req.Destination)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// JSON objects carry no order; sort paths so publishes are
	// deterministic for identical inputs.
	paths := make([]string, 0, len(req.Files))
	for p := range req.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	files := make([]model.FileRecord, 0, len(paths))
	for _, p := range paths {
		files = append(files, model.FileRecord{Path: p, Content: req.Files[p]})
	}

	svc := application.NewLiberationService(h.newHost(token), h.jobs, h.logger)
	result, err := svc.Liberate(r.Context(), projectName, files, dest)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("liberation failed", "project", projectName, "error", err)
			writeError(w, status, "internal server error")
			return
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toLiberateResponse(result))
}

// ListJobs returns recent liberation jobs, newest first.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.ListRecent(r.Context(), defaultJobListLimit)
	if err != nil {
		h.logger.Error("failed to list jobs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		resp = append(resp, toJobResponse(job))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetJob returns a single liberation job by ID.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("failed to get job", "id", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(*job))
}

// GetJobReport serves a job's migration report rendered as sanitized HTML.
func (h *Handler) GetJobReport(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("failed to get job", "id", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(RenderMarkdown(job.Report)))
}

// Health is the liveness endpoint used by the healthcheck binary.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or returns empty.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

// statusForError maps the pipeline's typed error kinds onto HTTP statuses.
func statusForError(err error) int {
	var (
		validationErr *model.ValidationError
		noFilesErr    *model.NoEligibleFilesError
		authErr       *model.AuthError
		rateErr       *model.RateLimitError
		notFoundErr   *model.NotFoundError
		conflictErr   *model.ConflictError
		partialErr    *model.PartialBuildError
		transientErr  *model.TransientHostError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &noFilesErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	case errors.As(err, &partialErr), errors.As(err, &transientErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

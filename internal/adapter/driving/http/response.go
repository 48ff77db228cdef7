package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/libreshift/libreshift/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and
// message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// LiberateRequest is the JSON body for the liberate endpoint: a project
// display name, an "owner/repo" destination, and a mapping of repo-relative
// path to raw text content.
type LiberateRequest struct {
	ProjectName string            `json:"project_name"`
	Destination string            `json:"destination"`
	Files       map[string]string `json:"files"`
}

// LiberateResponse is the JSON representation of a publish result.
type LiberateResponse struct {
	Success        bool     `json:"success"`
	RepoURL        string   `json:"repo_url,omitempty"`
	CommitSHA      string   `json:"commit_sha,omitempty"`
	Branch         string   `json:"branch,omitempty"`
	FilesPublished int      `json:"files_published"`
	TotalChanges   int      `json:"total_changes"`
	Excluded       []string `json:"excluded"`
}

// JobResponse is the JSON representation of a liberation job record.
type JobResponse struct {
	ID             string `json:"id"`
	ProjectName    string `json:"project_name"`
	Destination    string `json:"destination"`
	Branch         string `json:"branch,omitempty"`
	Status         string `json:"status"`
	CommitSHA      string `json:"commit_sha,omitempty"`
	RepoURL        string `json:"repo_url,omitempty"`
	FilesPublished int    `json:"files_published"`
	TotalChanges   int    `json:"total_changes"`
	Error          string `json:"error,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// toLiberateResponse converts a domain PublishResult to its JSON
// representation.
func toLiberateResponse(result *model.PublishResult) LiberateResponse {
	excluded := result.Excluded
	if excluded == nil {
		excluded = []string{}
	}

	return LiberateResponse{
		Success:        result.Success,
		RepoURL:        result.RepoURL,
		CommitSHA:      result.CommitSHA,
		Branch:         result.Branch,
		FilesPublished: result.FilesPublished,
		TotalChanges:   result.TotalChanges,
		Excluded:       excluded,
	}
}

// toJobResponse converts a domain LiberationJob to its JSON representation.
// The report markdown is deliberately omitted; it has its own endpoint.
func toJobResponse(job model.LiberationJob) JobResponse {
	return JobResponse{
		ID:             job.ID,
		ProjectName:    job.ProjectName,
		Destination:    job.Destination,
		Branch:         job.Branch,
		Status:         string(job.Status),
		CommitSHA:      job.CommitSHA,
		RepoURL:        job.RepoURL,
		FilesPublished: job.FilesPublished,
		TotalChanges:   job.TotalChanges,
		Error:          job.Error,
		CreatedAt:      job.CreatedAt.UTC().Format(time.RFC3339),
	}
}

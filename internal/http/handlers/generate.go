package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"portfolium/internal/domain"
)

const (
	maxMultipartMemory = 10 << 20
	maxCVBytes         = 5 << 20
)

type generateAcceptedResponse struct {
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}

type jobStatusResponse struct {
	Status    string `json:"status"`
	Portfolio string `json:"portfolio,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Error     string `json:"error,omitempty"`
}

// GeneratePortfolio accepts a multipart form with free-text details
// and an optional CV file, starts a generation job, and returns the
// job ID immediately. Clients poll GenerateStatus for the outcome.
func (a *App) GeneratePortfolio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid form data.")
		return
	}

	userInfo := strings.TrimSpace(r.FormValue("details"))
	model := strings.TrimSpace(r.FormValue("model"))

	if file, _, err := r.FormFile("cv"); err == nil {
		defer file.Close()
		cv, readErr := io.ReadAll(io.LimitReader(file, maxCVBytes))
		if readErr != nil {
			a.error(w, http.StatusBadRequest, "Could not read the uploaded CV.")
			return
		}
		if text := strings.TrimSpace(string(cv)); text != "" {
			userInfo += "\n\nCV Content:\n" + text
		}
	}

	if strings.TrimSpace(userInfo) == "" {
		a.error(w, http.StatusBadRequest, "Please provide details or upload a CV")
		return
	}

	jobID, err := a.Jobs.Submit(r.Context(), userInfo, model)
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to create generation job")
		a.error(w, http.StatusInternalServerError, "Failed to start portfolio generation. Please try again.")
		return
	}

	a.json(w, http.StatusAccepted, generateAcceptedResponse{
		JobID:   jobID,
		Message: "Portfolio generation started. Poll the status endpoint with this jobId.",
	})
}

// GenerateStatus reports the current state of a generation job.
func (a *App) GenerateStatus(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimSpace(r.URL.Query().Get("jobId"))
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "jobId query parameter is required")
		return
	}

	job, err := a.Jobs.Status(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "Job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("failed to load job")
		a.error(w, http.StatusInternalServerError, "Failed to check job status.")
		return
	}

	resp := jobStatusResponse{Status: string(job.Status)}
	switch job.Status {
	case domain.JobStatusCompleted:
		resp.Portfolio = job.Portfolio
		resp.Provider = job.Provider
	case domain.JobStatusFailed:
		resp.Error = job.FailureReason
	}
	a.json(w, http.StatusOK, resp)
}

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/slok/taskbreak/internal/app/breakdown"
	"github.com/slok/taskbreak/internal/model"
)

// apiKeyHeader carries the user API key when the server has no credentials.
const apiKeyHeader = "X-API-Key"

type apiBreakdownRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Effort      string   `json:"effort"`
	Complexity  int      `json:"complexity"`
	TotalHours  *float64 `json:"total_hours"`
}

type apiBreakdownResponse struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	Caution        bool   `json:"caution"`
	CautionMessage string `json:"caution_message,omitempty"`
	Model          string `json:"model"`
}

type apiErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

const (
	apiErrorKindRequest = "request"
	apiErrorKindAuth    = "auth"
)

func (s *Server) handleAPIBreakdown(w http.ResponseWriter, r *http.Request) {
	var req apiBreakdownRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, apiErrorResponse{Error: "invalid JSON body: " + err.Error(), Kind: apiErrorKindRequest})
		return
	}

	task := model.TaskRequest{
		Name:        req.Name,
		Description: req.Description,
		Complexity:  req.Complexity,
		TotalHours:  req.TotalHours,
	}
	if strings.TrimSpace(req.Effort) != "" {
		e, err := model.ParseEffortLevel(req.Effort)
		if err != nil {
			s.writeJSON(w, http.StatusUnprocessableEntity, apiErrorResponse{Error: err.Error(), Kind: string(model.FailureKindValidation)})
			return
		}
		task.Effort = e
	}
	if !s.tpl.IncludeTotalHours {
		task.TotalHours = nil
	}
	task.Defaults()

	if err := task.Validate(); err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, apiErrorResponse{Error: err.Error(), Kind: string(model.FailureKindValidation)})
		return
	}

	runner, err := s.runnerFor(r.Context(), strings.TrimSpace(r.Header.Get(apiKeyHeader)))
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, errMissingAPIKey) {
			status = http.StatusUnauthorized
		}
		s.writeJSON(w, status, apiErrorResponse{Error: err.Error(), Kind: apiErrorKindAuth})
		return
	}

	sub, err := runner.Run(r.Context(), breakdown.Request{Task: task})
	if err != nil {
		status := http.StatusBadGateway
		kind := model.FailureKindRemote
		if errors.Is(err, model.ErrNotValid) {
			status = http.StatusUnprocessableEntity
			kind = model.FailureKindValidation
		}
		s.writeJSON(w, status, apiErrorResponse{Error: err.Error(), Kind: string(kind)})
		return
	}

	s.writeJSON(w, http.StatusOK, apiBreakdownResponse{
		ID:             sub.ID,
		Text:           sub.Breakdown.Text,
		Caution:        sub.Breakdown.Caution,
		CautionMessage: sub.Breakdown.CautionMessage,
		Model:          sub.Breakdown.Model,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Errorf("could not write JSON response: %s", err)
	}
}

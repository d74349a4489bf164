package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/tally/internal/extract"
	"github.com/MikeSquared-Agency/tally/internal/jira"
	"github.com/MikeSquared-Agency/tally/internal/worklog"
)

// WorklogRequest is the body of POST /api/v1/worklog.
type WorklogRequest struct {
	Text   string `json:"text"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	DryRun bool   `json:"dry_run"` // parse only, nothing is submitted
}

// WorklogResponse reports a finished turn.
type WorklogResponse struct {
	TurnID   string        `json:"turn_id"`
	Logged   bool          `json:"logged"`
	Kind     string        `json:"kind"`
	Category string        `json:"category"`
	Flow     string        `json:"flow,omitempty"`
	Messages []string      `json:"messages"`
	ItemKey  string        `json:"item_key,omitempty"`
	Worklog  *jira.Worklog `json:"worklog,omitempty"`
}

// logWork handles POST /api/v1/worklog
func (s *Server) logWork(w http.ResponseWriter, r *http.Request) {
	var req WorklogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	if req.DryRun {
		s.parseOnly(w, req.Text)
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	turnID := uuid.New().String()
	s.logger.Info("worklog requested", "turn_id", turnID, "request_id", middleware.GetReqID(r.Context()))

	out := s.pipeline.Run(r.Context(), turnID, worklog.Message{Text: req.Text, Email: req.Email, Name: req.Name})

	resp := WorklogResponse{
		TurnID:   out.TurnID,
		Logged:   out.Logged(),
		Kind:     string(out.Final.Kind),
		Category: string(out.Final.Category),
		Flow:     out.Final.Flow,
		ItemKey:  out.ItemKey,
		Worklog:  out.Worklog,
	}
	for _, sig := range out.Signals() {
		resp.Messages = append(resp.Messages, sig.Text)
	}
	writeJSON(w, statusFor(out.Final), resp)
}

func (s *Server) parseOnly(w http.ResponseWriter, text string) {
	parsed, err := extract.Parse(text, s.now())
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":    err.Error(),
			"category": parseCategory(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, parsed)
}

// statusFor maps a terminal signal to an HTTP status.
func statusFor(final worklog.Signal) int {
	switch final.Kind {
	case worklog.SignalSuccess:
		return http.StatusOK
	case worklog.SignalHandoff:
		return http.StatusBadGateway
	}
	if final.Category == worklog.CategoryRetryLater {
		return http.StatusServiceUnavailable
	}
	return http.StatusUnprocessableEntity
}

func parseCategory(err error) string {
	switch {
	case errors.Is(err, extract.ErrNoTask):
		return string(worklog.CategoryNoTask)
	case errors.Is(err, extract.ErrAmbiguousTask):
		return string(worklog.CategoryAmbiguousTask)
	case errors.Is(err, extract.ErrAmbiguousDay):
		return string(worklog.CategoryAmbiguousDay)
	case errors.Is(err, extract.ErrAmbiguousDuration):
		return string(worklog.CategoryAmbiguousDuration)
	}
	return "unknown"
}

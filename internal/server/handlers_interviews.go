package server

import (
	"net/http"

	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/types"
)

const upcomingInterviews = 10

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	interviews, err := s.store.ListInterviews(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, interviews)
}

// handleTodayInterviews returns interviews scheduled on the server's current day
func (s *Server) handleTodayInterviews(w http.ResponseWriter, r *http.Request) {
	start, end := db.DayBounds(s.now())

	interviews, err := s.store.ListInterviewsBetween(r.Context(), start, end)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, interviews)
}

func (s *Server) handleUpcomingInterviews(w http.ResponseWriter, r *http.Request) {
	interviews, err := s.store.ListUpcomingInterviews(r.Context(), s.now(), upcomingInterviews)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, interviews)
}

// handleCreateInterview schedules an interview with the caller as
// interviewer and records scheduled_interview.
func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req types.CreateInterviewRequest
	if err := decodeJSON(r, s.validator, &req); err != nil {
		respondError(w, r, err)
		return
	}

	interview, err := s.store.CreateInterview(r.Context(), db.InterviewInput{
		ApplicationID: req.ApplicationID,
		InterviewerID: userID,
		ScheduledAt:   req.ScheduledAt,
		Duration:      req.Duration,
		Type:          req.Type,
		MeetingURL:    req.MeetingURL,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(w, r, missingReference(err))
		return
	}

	s.recordActivity(r, types.ActionScheduledInterview, types.InterviewRef(interview.ID),
		db.Metadata{"applicationId": interview.ApplicationID})
	s.invalidateDashboard(r)
	respondJSON(w, r, http.StatusCreated, interview)
}

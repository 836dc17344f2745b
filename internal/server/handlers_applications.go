package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/pipeline"
	"github.com/jonathan/talent-tracker/internal/types"
)

// handleListApplications lists joined applications, filtered by ?jobId=,
// ?candidateId= and ?status=
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	jobID, err := queryID(r, "jobId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	candidateID, err := queryID(r, "candidateId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	apps, err := s.store.ListApplicationDetails(r.Context(), db.ApplicationFilters{
		JobID:       jobID,
		CandidateID: candidateID,
		Status:      types.Status(r.URL.Query().Get("status")),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, apps)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	app, err := s.store.GetApplicationDetail(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if app == nil {
		respondError(w, r, &ErrNotFound{Resource: "application", ID: strconv.FormatInt(id, 10)})
		return
	}
	respondJSON(w, r, http.StatusOK, app)
}

// handleApplicationActivities returns the audit trail of one application,
// newest first.
func (s *Server) handleApplicationActivities(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if app == nil {
		respondError(w, r, &ErrNotFound{Resource: "application", ID: strconv.FormatInt(id, 10)})
		return
	}

	activities, err := s.activities.ListByEntity(r.Context(), types.ApplicationRef(id))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, activities)
}

// handleCreateApplication creates an application. Without an explicit
// assignee it is assigned to the caller.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req types.CreateApplicationRequest
	if err := decodeJSON(r, s.validator, &req); err != nil {
		respondError(w, r, err)
		return
	}

	assignee := req.AssignedTo
	if assignee == nil {
		assignee = &userID
	}

	app, err := s.store.CreateApplication(r.Context(), db.ApplicationInput{
		CandidateID: req.CandidateID,
		JobID:       req.JobID,
		Status:      req.Status,
		Score:       req.Score,
		Source:      req.Source,
		AssignedTo:  assignee,
	})
	if err != nil {
		respondError(w, r, missingReference(err))
		return
	}
	s.invalidateDashboard(r)
	respondJSON(w, r, http.StatusCreated, app)
}

// handleUpdateApplicationStatus moves an application to a new status.
// An optional version in the body makes the write conditional.
func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	userID, err := currentUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req types.UpdateStatusRequest
	if err := decodeJSON(r, s.validator, &req); err != nil {
		respondError(w, r, err)
		return
	}

	app, err := s.pipeline.Transition(r.Context(), pipeline.TransitionRequest{
		ApplicationID:   id,
		Status:          req.Status,
		ExpectedVersion: req.Version,
		Actor:           userID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateDashboard(r)
	respondJSON(w, r, http.StatusOK, app)
}

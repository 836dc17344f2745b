package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/types"
)

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.ListJobs(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if job == nil {
		respondError(w, r, &ErrNotFound{Resource: "job", ID: strconv.FormatInt(id, 10)})
		return
	}
	respondJSON(w, r, http.StatusOK, job)
}

// handleCreateJob posts a job on behalf of the caller and records posted_job.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req types.CreateJobRequest
	if err := decodeJSON(r, s.validator, &req); err != nil {
		respondError(w, r, err)
		return
	}

	job, err := s.store.CreateJob(r.Context(), &req, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.recordActivity(r, types.ActionPostedJob, types.JobRef(job.ID), db.Metadata{"jobTitle": job.Title})
	s.invalidateDashboard(r)
	respondJSON(w, r, http.StatusCreated, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req types.UpdateJobRequest
	if err := decodeJSON(r, s.validator, &req); err != nil {
		respondError(w, r, err)
		return
	}

	job, err := s.store.UpdateJob(r.Context(), id, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if job == nil {
		respondError(w, r, &ErrNotFound{Resource: "job", ID: strconv.FormatInt(id, 10)})
		return
	}
	s.invalidateDashboard(r)
	respondJSON(w, r, http.StatusOK, job)
}

// handleDeleteJob removes a job. A job that still has applications is a conflict.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	deleted, err := s.store.DeleteJob(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !deleted {
		respondError(w, r, &ErrNotFound{Resource: "job", ID: strconv.FormatInt(id, 10)})
		return
	}
	s.invalidateDashboard(r)
	w.WriteHeader(http.StatusNoContent)
}

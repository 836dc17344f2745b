package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/talent-tracker/internal/types"
)

// handleListCandidates lists candidates, optionally filtered by ?search=
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	candidates, err := s.store.ListCandidates(r.Context(), search)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, candidates)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	candidate, err := s.store.GetCandidate(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if candidate == nil {
		respondError(w, r, &ErrNotFound{Resource: "candidate", ID: strconv.FormatInt(id, 10)})
		return
	}
	respondJSON(w, r, http.StatusOK, candidate)
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCandidateRequest
	if err := decodeJSON(r, s.validator, &req); err != nil {
		respondError(w, r, err)
		return
	}

	candidate, err := s.store.CreateCandidate(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, candidate)
}

func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req types.UpdateCandidateRequest
	if err := decodeJSON(r, s.validator, &req); err != nil {
		respondError(w, r, err)
		return
	}

	candidate, err := s.store.UpdateCandidate(r.Context(), id, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if candidate == nil {
		respondError(w, r, &ErrNotFound{Resource: "candidate", ID: strconv.FormatInt(id, 10)})
		return
	}
	respondJSON(w, r, http.StatusOK, candidate)
}

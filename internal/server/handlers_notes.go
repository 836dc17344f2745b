package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/types"
)

// handleListNotes returns an application's notes visible to the caller
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	appID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	userID, err := currentUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	notes, err := s.store.ListNotesByApplication(r.Context(), appID, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, notes)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	appID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	userID, err := currentUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req types.CreateNoteRequest
	if err := decodeJSON(r, s.validator, &req); err != nil {
		respondError(w, r, err)
		return
	}

	note, err := s.store.CreateNote(r.Context(), appID, userID, req.Content, req.IsPrivate)
	if err != nil {
		var ref *db.ErrReference
		if errors.As(err, &ref) && ref.Constraint == "notes_application_id_fkey" {
			err = &ErrNotFound{Resource: "application", ID: strconv.FormatInt(appID, 10)}
		}
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, note)
}

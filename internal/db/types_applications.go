package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/types"
)

// Application is a candidate's submission to a job and the unit the
// pipeline operates on. CandidateID, JobID and AppliedAt never change after
// creation; Version increases by one on every status write.
type Application struct {
	ID          int64        `json:"id"`
	CandidateID int64        `json:"candidateId"`
	JobID       int64        `json:"jobId"`
	Status      types.Status `json:"status"`
	Score       *int         `json:"score,omitempty"`
	Source      string       `json:"source,omitempty"`
	AssignedTo  *uuid.UUID   `json:"assignedTo,omitempty"`
	AppliedAt   time.Time    `json:"appliedAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Version     int          `json:"version"`
}

// ApplicationDetail is an application joined with the candidate's name and
// email and the job title at read time. The joined fields are never stored.
type ApplicationDetail struct {
	Application
	CandidateName  string `json:"candidateName"`
	CandidateEmail string `json:"candidateEmail"`
	JobTitle       string `json:"jobTitle"`
}

// ApplicationInput holds the values for a new application
type ApplicationInput struct {
	CandidateID int64
	JobID       int64
	Status      types.Status
	Score       *int
	Source      string
	AssignedTo  *uuid.UUID
}

// ApplicationFilters holds optional filters for listing applications.
// A zero Limit means no limit.
type ApplicationFilters struct {
	JobID       int64
	CandidateID int64
	Status      types.Status
	Limit       int
}

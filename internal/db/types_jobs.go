package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/types"
)

// Job represents a job posting. Its status is independent of any
// application's pipeline status.
type Job struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Department   string          `json:"department,omitempty"`
	Location     string          `json:"location,omitempty"`
	Type         string          `json:"type"`
	Status       types.JobStatus `json:"status"`
	Salary       string          `json:"salary,omitempty"`
	Requirements string          `json:"requirements,omitempty"`
	Benefits     string          `json:"benefits,omitempty"`
	PostedBy     *uuid.UUID      `json:"postedBy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

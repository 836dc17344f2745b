package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/types"
)

// Interview is a scheduled event for one application and one interviewer
type Interview struct {
	ID            int64                 `json:"id"`
	ApplicationID int64                 `json:"applicationId"`
	InterviewerID uuid.UUID             `json:"interviewerId"`
	ScheduledAt   time.Time             `json:"scheduledAt"`
	Duration      int                   `json:"duration"` // minutes
	Type          string                `json:"type"`
	Status        types.InterviewStatus `json:"status"`
	MeetingURL    string                `json:"meetingUrl,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	Feedback      string                `json:"feedback,omitempty"`
	Rating        *int                  `json:"rating,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// InterviewDetail is an interview joined with candidate, job and interviewer names
type InterviewDetail struct {
	Interview
	CandidateName   string `json:"candidateName"`
	JobTitle        string `json:"jobTitle"`
	InterviewerName string `json:"interviewerName"`
}

// InterviewInput holds the values for a new interview
type InterviewInput struct {
	ApplicationID int64
	InterviewerID uuid.UUID
	ScheduledAt   time.Time
	Duration      int
	Type          string
	MeetingURL    string
	Notes         string
}

package types

import (
	"time"

	"github.com/google/uuid"
)

// CreateJobRequest is the body of POST /api/jobs.
type CreateJobRequest struct {
	Title        string    `json:"title" validate:"required,max=255"`
	Description  string    `json:"description" validate:"required"`
	Department   string    `json:"department,omitempty" validate:"omitempty,max=100"`
	Location     string    `json:"location,omitempty" validate:"omitempty,max=255"`
	Type         string    `json:"type" validate:"required,max=50"`
	Status       JobStatus `json:"status,omitempty" validate:"omitempty,max=50"`
	Salary       string    `json:"salary,omitempty" validate:"omitempty,max=100"`
	Requirements string    `json:"requirements,omitempty"`
	Benefits     string    `json:"benefits,omitempty"`
}

// UpdateJobRequest is the body of PUT /api/jobs/{id}. Nil fields are left unchanged.
type UpdateJobRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,min=1"`
	Department   *string    `json:"department,omitempty" validate:"omitempty,max=100"`
	Location     *string    `json:"location,omitempty" validate:"omitempty,max=255"`
	Type         *string    `json:"type,omitempty" validate:"omitempty,min=1,max=50"`
	Status       *JobStatus `json:"status,omitempty" validate:"omitempty,min=1,max=50"`
	Salary       *string    `json:"salary,omitempty" validate:"omitempty,max=100"`
	Requirements *string    `json:"requirements,omitempty"`
	Benefits     *string    `json:"benefits,omitempty"`
}

// CreateCandidateRequest is the body of POST /api/candidates.
type CreateCandidateRequest struct {
	FirstName    string   `json:"firstName" validate:"required,max=100"`
	LastName     string   `json:"lastName" validate:"required,max=100"`
	Email        string   `json:"email" validate:"required,email,max=255"`
	Phone        string   `json:"phone,omitempty" validate:"omitempty,max=20"`
	Location     string   `json:"location,omitempty" validate:"omitempty,max=255"`
	ResumeURL    string   `json:"resumeUrl,omitempty" validate:"omitempty,url"`
	LinkedinURL  string   `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
	PortfolioURL string   `json:"portfolioUrl,omitempty" validate:"omitempty,url"`
	Skills       []string `json:"skills,omitempty" validate:"omitempty,dive,required"`
	Experience   string   `json:"experience,omitempty"`
	Education    string   `json:"education,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// UpdateCandidateRequest is the body of PUT /api/candidates/{id}. Nil fields are left unchanged.
type UpdateCandidateRequest struct {
	FirstName    *string   `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName     *string   `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Email        *string   `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone        *string   `json:"phone,omitempty" validate:"omitempty,max=20"`
	Location     *string   `json:"location,omitempty" validate:"omitempty,max=255"`
	ResumeURL    *string   `json:"resumeUrl,omitempty" validate:"omitempty,url"`
	LinkedinURL  *string   `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
	PortfolioURL *string   `json:"portfolioUrl,omitempty" validate:"omitempty,url"`
	Skills       *[]string `json:"skills,omitempty"`
	Experience   *string   `json:"experience,omitempty"`
	Education    *string   `json:"education,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}

// CreateApplicationRequest is the body of POST /api/applications.
type CreateApplicationRequest struct {
	CandidateID int64      `json:"candidateId" validate:"required,gt=0"`
	JobID       int64      `json:"jobId" validate:"required,gt=0"`
	Status      Status     `json:"status,omitempty" validate:"omitempty,max=50"`
	Score       *int       `json:"score,omitempty" validate:"omitempty,min=0,max=100"`
	Source      string     `json:"source,omitempty" validate:"omitempty,max=100"`
	AssignedTo  *uuid.UUID `json:"assignedTo,omitempty"`
}

// UpdateStatusRequest is the body of PUT /api/applications/{id}/status.
// Version is optional; when set the update only applies to that version.
type UpdateStatusRequest struct {
	Status  Status `json:"status" validate:"required"`
	Version *int   `json:"version,omitempty" validate:"omitempty,min=1"`
}

// CreateInterviewRequest is the body of POST /api/interviews.
type CreateInterviewRequest struct {
	ApplicationID int64     `json:"applicationId" validate:"required,gt=0"`
	ScheduledAt   time.Time `json:"scheduledAt" validate:"required"`
	Duration      int       `json:"duration,omitempty" validate:"omitempty,min=5,max=480"`
	Type          string    `json:"type" validate:"required,max=50"`
	MeetingURL    string    `json:"meetingUrl,omitempty" validate:"omitempty,url"`
	Notes         string    `json:"notes,omitempty"`
}

// CreateNoteRequest is the body of POST /api/applications/{id}/notes.
type CreateNoteRequest struct {
	Content   string `json:"content" validate:"required"`
	IsPrivate bool   `json:"isPrivate"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DashboardMetrics is the body of GET /api/dashboard/metrics.
type DashboardMetrics struct {
	TotalApplications   int64   `json:"totalApplications"`
	ActiveJobs          int64   `json:"activeJobs"`
	ScheduledInterviews int64   `json:"scheduledInterviews"`
	TimeToHire          float64 `json:"timeToHire"` // average days from applied to hired
}

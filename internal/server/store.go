package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/types"
)

// DBClient is the user storage used by authentication. Getters return
// nil, nil when no user matches.
type DBClient interface {
	CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// JobStore persists job postings.
type JobStore interface {
	CreateJob(ctx context.Context, req *types.CreateJobRequest, postedBy uuid.UUID) (*db.Job, error)
	GetJob(ctx context.Context, id int64) (*db.Job, error)
	ListJobs(ctx context.Context) ([]db.Job, error)
	UpdateJob(ctx context.Context, id int64, req *types.UpdateJobRequest) (*db.Job, error)
	DeleteJob(ctx context.Context, id int64) (bool, error)
}

// CandidateStore persists candidates.
type CandidateStore interface {
	CreateCandidate(ctx context.Context, req *types.CreateCandidateRequest) (*db.Candidate, error)
	GetCandidate(ctx context.Context, id int64) (*db.Candidate, error)
	ListCandidates(ctx context.Context, search string) ([]db.Candidate, error)
	UpdateCandidate(ctx context.Context, id int64, req *types.UpdateCandidateRequest) (*db.Candidate, error)
}

// ApplicationStore persists applications. The status write itself goes
// through the pipeline service.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, in db.ApplicationInput) (*db.Application, error)
	GetApplication(ctx context.Context, id int64) (*db.Application, error)
	GetApplicationDetail(ctx context.Context, id int64) (*db.ApplicationDetail, error)
	ListApplicationDetails(ctx context.Context, filters db.ApplicationFilters) ([]db.ApplicationDetail, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status types.Status, expectedVersion *int) (*db.Application, error)
}

// InterviewStore persists interviews.
type InterviewStore interface {
	CreateInterview(ctx context.Context, in db.InterviewInput) (*db.Interview, error)
	ListInterviews(ctx context.Context) ([]db.Interview, error)
	ListInterviewsBetween(ctx context.Context, from, to time.Time) ([]db.InterviewDetail, error)
	ListUpcomingInterviews(ctx context.Context, now time.Time, limit int) ([]db.InterviewDetail, error)
}

// NoteStore persists application notes.
type NoteStore interface {
	CreateNote(ctx context.Context, applicationID int64, authorID uuid.UUID, content string, isPrivate bool) (*db.Note, error)
	ListNotesByApplication(ctx context.Context, applicationID int64, viewerID uuid.UUID) ([]db.Note, error)
}

// Store is everything the HTTP layer reads and writes. *db.DB implements it.
type Store interface {
	DBClient
	JobStore
	CandidateStore
	ApplicationStore
	InterviewStore
	NoteStore
	GetDashboardMetrics(ctx context.Context) (*types.DashboardMetrics, error)
	Ping(ctx context.Context) error
}

// ActivityStore is the append-only activity log. *db.ActivityLog implements it.
type ActivityStore interface {
	Record(ctx context.Context, userID uuid.UUID, action string, ref types.EntityRef, metadata db.Metadata) (*db.Activity, error)
	ListRecent(ctx context.Context, limit int) ([]db.ActivityDetail, error)
	ListByEntity(ctx context.Context, ref types.EntityRef) ([]db.ActivityDetail, error)
}

var (
	_ Store         = (*db.DB)(nil)
	_ ActivityStore = (*db.ActivityLog)(nil)
)

// Package types holds the enumerations and request bodies shared by the
// talent-tracker API and its storage layer.
package types

// Status is an application's pipeline status exactly as stored. Values outside
// the known set are kept verbatim and classified as StageLegacy.
type Status string

const (
	// StatusApplied is the initial status of every new application.
	StatusApplied Status = "applied"
	// StatusScreening indicates the candidate is being screened.
	StatusScreening Status = "screening"
	// StatusInterview indicates the candidate is in the interview loop.
	StatusInterview Status = "interview"
	// StatusDecision indicates interviews are done and a decision is pending.
	StatusDecision Status = "decision"
	// StatusHired is a terminal status.
	StatusHired Status = "hired"
	// StatusRejected is a terminal status.
	StatusRejected Status = "rejected"
)

// Stage is the closed enumeration of pipeline stages.
type Stage int

const (
	// StageLegacy is the fallback for any stored status outside the known set.
	StageLegacy Stage = iota
	StageApplied
	StageScreening
	StageInterview
	StageDecision
	StageHired
	StageRejected
)

// statusCount is the number of known statuses.
const statusCount = 6

// AllStatuses returns the known statuses in pipeline progression order.
func AllStatuses() []Status {
	return []Status{
		StatusApplied, StatusScreening, StatusInterview,
		StatusDecision, StatusHired, StatusRejected,
	}
}

// stageByStatus follows AllStatuses, so progression order is defined once.
var stageByStatus = func() map[Status]Stage {
	m := make(map[Status]Stage, statusCount)
	for i, s := range AllStatuses() {
		m[s] = StageApplied + Stage(i)
	}
	return m
}()

// Stage maps the status onto the closed stage enumeration.
func (s Status) Stage() Stage {
	if stage, ok := stageByStatus[s]; ok {
		return stage
	}
	return StageLegacy
}

// IsKnown reports whether s is one of the known pipeline statuses.
func (s Status) IsKnown() bool {
	return s.Stage() != StageLegacy
}

// String returns the stage name, or "legacy" for StageLegacy.
func (s Stage) String() string {
	if s == StageLegacy {
		return "legacy"
	}
	for status, stage := range stageByStatus {
		if stage == s {
			return string(status)
		}
	}
	return "legacy"
}

// JobStatus is the lifecycle status of a job posting.
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusPaused JobStatus = "paused"
	JobStatusClosed JobStatus = "closed"
)

// InterviewStatus is the lifecycle status of an interview. It is independent
// of the application's pipeline status.
type InterviewStatus string

const (
	InterviewScheduled   InterviewStatus = "scheduled"
	InterviewCompleted   InterviewStatus = "completed"
	InterviewCancelled   InterviewStatus = "cancelled"
	InterviewRescheduled InterviewStatus = "rescheduled"
)

// UserRole is the role of a team member.
type UserRole string

const (
	RoleRecruiter     UserRole = "recruiter"
	RoleHiringManager UserRole = "hiring_manager"
	RoleAdmin         UserRole = "admin"
)

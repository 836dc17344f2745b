package types

// EntityKind names the kind of record an activity refers to.
type EntityKind string

const (
	EntityApplication EntityKind = "application"
	EntityJob         EntityKind = "job"
	EntityCandidate   EntityKind = "candidate"
	EntityInterview   EntityKind = "interview"
	EntityNote        EntityKind = "note"
)

// EntityRef is a weak reference from an activity to the record it describes.
// It is not a foreign key and the referenced record may no longer exist.
type EntityRef struct {
	Kind EntityKind `json:"entityType" db:"entity_type"`
	ID   int64      `json:"entityId" db:"entity_id"`
}

// ApplicationRef returns a reference to an application.
func ApplicationRef(id int64) EntityRef {
	return EntityRef{Kind: EntityApplication, ID: id}
}

// JobRef returns a reference to a job posting.
func JobRef(id int64) EntityRef {
	return EntityRef{Kind: EntityJob, ID: id}
}

// InterviewRef returns a reference to an interview.
func InterviewRef(id int64) EntityRef {
	return EntityRef{Kind: EntityInterview, ID: id}
}

// Activity action tags written by this service.
const (
	ActionMovedCandidate     = "moved_candidate"
	ActionPostedJob          = "posted_job"
	ActionScheduledInterview = "scheduled_interview"
)

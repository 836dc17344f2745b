package pipeline

import "fmt"

// ErrStatusRequired is returned when a transition names no target status.
type ErrStatusRequired struct{}

func (e *ErrStatusRequired) Error() string {
	return "status is required"
}

// ErrApplicationNotFound is returned when the application does not exist.
type ErrApplicationNotFound struct {
	ID int64
}

func (e *ErrApplicationNotFound) Error() string {
	return fmt.Sprintf("application %d not found", e.ID)
}

// ErrVersionConflict is returned when a caller-supplied version no longer
// matches the stored one. Actual is the version currently stored.
type ErrVersionConflict struct {
	ID       int64
	Expected int
	Actual   int
}

func (e *ErrVersionConflict) Error() string {
	return fmt.Sprintf("application %d was modified: expected version %d, current version %d",
		e.ID, e.Expected, e.Actual)
}

// ErrUnauthenticated is returned when the caller has no identity.
type ErrUnauthenticated struct{}

func (e *ErrUnauthenticated) Error() string {
	return "authentication required"
}

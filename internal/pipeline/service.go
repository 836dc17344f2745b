// Package pipeline implements the recruitment pipeline: the projection of all
// applications by status and the status transition with its audit entry.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/logger"
	"github.com/jonathan/talent-tracker/internal/metrics"
	"github.com/jonathan/talent-tracker/internal/types"
)

// ApplicationStore is the storage the pipeline reads and writes.
// Getters and UpdateApplicationStatus return nil, nil when no row matches.
type ApplicationStore interface {
	GetApplication(ctx context.Context, id int64) (*db.Application, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status types.Status, expectedVersion *int) (*db.Application, error)
	ListApplicationDetails(ctx context.Context, filters db.ApplicationFilters) ([]db.ApplicationDetail, error)
}

// ActivityRecorder appends to the activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, action string, ref types.EntityRef, metadata db.Metadata) (*db.Activity, error)
}

// Observer receives pipeline measurements. *metrics.Metrics implements it.
type Observer interface {
	TransitionObserved(outcome string)
	ActivityWriteFailed(action string)
	ProjectionBuilt(applications int)
}

type nopObserver struct{}

func (nopObserver) TransitionObserved(string)  {}
func (nopObserver) ActivityWriteFailed(string) {}
func (nopObserver) ProjectionBuilt(int)        {}

// TransitionRequest moves one application to Status on behalf of Actor.
// A non-nil ExpectedVersion makes the write conditional on the stored version.
type TransitionRequest struct {
	ApplicationID   int64
	Status          types.Status
	ExpectedVersion *int
	Actor           uuid.UUID
}

// Service runs pipeline reads and status transitions.
type Service struct {
	store      ApplicationStore
	activities ActivityRecorder
	log        logger.Logger
	observer   Observer
}

// NewService creates a pipeline service. A nil log or observer disables
// logging or measurements respectively.
func NewService(store ApplicationStore, activities ActivityRecorder, log logger.Logger, observer Observer) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Service{
		store:      store,
		activities: activities,
		log:        log,
		observer:   observer,
	}
}

// Pipeline loads every application with its joined names and projects it.
func (s *Service) Pipeline(ctx context.Context) (*Projection, error) {
	apps, err := s.store.ListApplicationDetails(ctx, db.ApplicationFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline: %w", err)
	}
	p := Project(apps)
	s.observer.ProjectionBuilt(p.Total())
	return &p, nil
}

// Transition overwrites the application's status and then records one
// moved_candidate activity. The status is not checked against the known
// stages and no transition order is enforced. The activity write is best
// effort: once the status is stored, a failed write is logged and counted
// but the updated application is still returned.
func (s *Service) Transition(ctx context.Context, req TransitionRequest) (*db.Application, error) {
	if req.Actor == uuid.Nil {
		s.observer.TransitionObserved(metrics.OutcomeUnauthenticated)
		return nil, &ErrUnauthenticated{}
	}
	if req.Status == "" {
		s.observer.TransitionObserved(metrics.OutcomeInvalid)
		return nil, &ErrStatusRequired{}
	}

	app, err := s.store.UpdateApplicationStatus(ctx, req.ApplicationID, req.Status, req.ExpectedVersion)
	if err != nil {
		s.observer.TransitionObserved(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to update application %d status: %w", req.ApplicationID, err)
	}
	if app == nil {
		return nil, s.explainMiss(ctx, req)
	}
	s.observer.TransitionObserved(metrics.OutcomeApplied)

	metadata := db.Metadata{
		"status":      string(app.Status),
		"candidateId": app.CandidateID,
	}
	if _, err := s.activities.Record(ctx, req.Actor, types.ActionMovedCandidate,
		types.ApplicationRef(app.ID), metadata); err != nil {
		s.observer.ActivityWriteFailed(types.ActionMovedCandidate)
		s.log.Warn("failed to record status transition activity",
			logger.Int64("application_id", app.ID),
			logger.String("status", string(app.Status)),
			logger.String("user_id", req.Actor.String()),
			logger.Error(err),
		)
	}

	s.log.Debug("application status updated",
		logger.Int64("application_id", app.ID),
		logger.String("status", string(app.Status)),
		logger.Int("version", app.Version),
	)
	return app, nil
}

// explainMiss tells a missing application from a stale version after an
// update matched no row.
func (s *Service) explainMiss(ctx context.Context, req TransitionRequest) error {
	if req.ExpectedVersion == nil {
		s.observer.TransitionObserved(metrics.OutcomeNotFound)
		return &ErrApplicationNotFound{ID: req.ApplicationID}
	}

	current, err := s.store.GetApplication(ctx, req.ApplicationID)
	if err != nil {
		s.observer.TransitionObserved(metrics.OutcomeError)
		return fmt.Errorf("failed to load application %d: %w", req.ApplicationID, err)
	}
	if current == nil {
		s.observer.TransitionObserved(metrics.OutcomeNotFound)
		return &ErrApplicationNotFound{ID: req.ApplicationID}
	}

	s.observer.TransitionObserved(metrics.OutcomeConflict)
	return &ErrVersionConflict{
		ID:       req.ApplicationID,
		Expected: *req.ExpectedVersion,
		Actual:   current.Version,
	}
}

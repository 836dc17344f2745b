package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/types"
)

// memStore is an in-memory ApplicationStore and ActivityRecorder with
// single-row atomicity, mirroring the database guarantees.
type memStore struct {
	mu         sync.Mutex
	apps       map[int64]*db.ApplicationDetail
	activities []db.Activity

	updateErr   error
	getErr      error
	listErr     error
	activityErr error
	updates     int
}

func newMemStore(apps ...db.ApplicationDetail) *memStore {
	s := &memStore{apps: map[int64]*db.ApplicationDetail{}}
	for i := range apps {
		app := apps[i]
		if app.Version == 0 {
			app.Version = 1
		}
		s.apps[app.ID] = &app
	}
	return s
}

func (s *memStore) GetApplication(_ context.Context, id int64) (*db.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	app, ok := s.apps[id]
	if !ok {
		return nil, nil
	}
	copied := app.Application
	return &copied, nil
}

func (s *memStore) UpdateApplicationStatus(_ context.Context, id int64, status types.Status, expectedVersion *int) (*db.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	app, ok := s.apps[id]
	if !ok {
		return nil, nil
	}
	if expectedVersion != nil && app.Version != *expectedVersion {
		return nil, nil
	}
	s.updates++
	app.Status = status
	app.UpdatedAt = time.Now()
	app.Version++
	copied := app.Application
	return &copied, nil
}

func (s *memStore) ListApplicationDetails(_ context.Context, _ db.ApplicationFilters) ([]db.ApplicationDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]db.ApplicationDetail, 0, len(s.apps))
	for _, app := range s.apps {
		out = append(out, *app)
	}
	return out, nil
}

func (s *memStore) Record(_ context.Context, userID uuid.UUID, action string, ref types.EntityRef, metadata db.Metadata) (*db.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activityErr != nil {
		return nil, s.activityErr
	}
	if action == "" {
		return nil, errors.New("action is required")
	}
	a := db.Activity{
		ID:        int64(len(s.activities) + 1),
		UserID:    userID,
		Action:    action,
		EntityRef: ref,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
	s.activities = append(s.activities, a)
	return &a, nil
}

func (s *memStore) activityCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activities)
}

func (s *memStore) status(id int64) types.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps[id].Status
}

// countingObserver records observations for assertions.
type countingObserver struct {
	mu          sync.Mutex
	outcomes    map[string]int
	failures    map[string]int
	projections []int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{outcomes: map[string]int{}, failures: map[string]int{}}
}

func (o *countingObserver) TransitionObserved(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes[outcome]++
}

func (o *countingObserver) ActivityWriteFailed(action string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures[action]++
}

func (o *countingObserver) ProjectionBuilt(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.projections = append(o.projections, n)
}

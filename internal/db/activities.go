package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jonathan/talent-tracker/internal/schemas"
	"github.com/jonathan/talent-tracker/internal/types"
)

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 100
)

// ActivityLog is the append-only store of user actions. It exposes no update
// or delete. Reads return the most recent entries first.
type ActivityLog struct {
	db *sqlx.DB
}

// NewActivityLog creates an ActivityLog over the given handle
func NewActivityLog(db *sqlx.DB) *ActivityLog {
	return &ActivityLog{db: db}
}

// Record appends one activity. Metadata of well-known actions must match
// the action's schema; the entity reference is not checked for existence.
func (l *ActivityLog) Record(ctx context.Context, userID uuid.UUID, action string, ref types.EntityRef, metadata Metadata) (*Activity, error) {
	if action == "" {
		return nil, fmt.Errorf("activity action is required")
	}
	if err := schemas.ValidateActivityMetadata(action, map[string]any(metadata)); err != nil {
		return nil, fmt.Errorf("invalid %s metadata: %w", action, err)
	}
	if metadata == nil {
		metadata = Metadata{}
	}

	activity := Activity{
		UserID:    userID,
		Action:    action,
		EntityRef: ref,
		Metadata:  metadata,
	}
	err := l.db.QueryRowxContext(ctx,
		`INSERT INTO activities (user_id, action, entity_type, entity_id, metadata)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		userID, action, ref.Kind, ref.ID, metadata,
	).Scan(&activity.ID, &activity.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}
	return &activity, nil
}

// ListRecent returns the latest activities joined with the acting user's name.
// A non-positive limit uses the default; the limit is capped.
func (l *ActivityLog) ListRecent(ctx context.Context, limit int) ([]ActivityDetail, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	activities := []ActivityDetail{}
	err := l.db.SelectContext(ctx, &activities,
		`SELECT a.id, a.user_id, a.action, a.entity_type, a.entity_id, a.metadata, a.created_at,
		        COALESCE(u.name, '') AS user_name
		 FROM activities a
		 LEFT JOIN users u ON u.id = a.user_id
		 ORDER BY a.created_at DESC, a.id DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// ListByEntity returns every activity that references ref, newest first.
func (l *ActivityLog) ListByEntity(ctx context.Context, ref types.EntityRef) ([]ActivityDetail, error) {
	activities := []ActivityDetail{}
	err := l.db.SelectContext(ctx, &activities,
		`SELECT a.id, a.user_id, a.action, a.entity_type, a.entity_id, a.metadata, a.created_at,
		        COALESCE(u.name, '') AS user_name
		 FROM activities a
		 LEFT JOIN users u ON u.id = a.user_id
		 WHERE a.entity_type = $1 AND a.entity_id = $2
		 ORDER BY a.created_at DESC, a.id DESC`, ref.Kind, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities for %s %d: %w", ref.Kind, ref.ID, err)
	}
	return activities, nil
}

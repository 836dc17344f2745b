package db

import (
	"context"
	"fmt"

	"github.com/jonathan/talent-tracker/internal/types"
	"golang.org/x/sync/errgroup"
)

// GetDashboardMetrics computes the dashboard counters. The four aggregates
// run concurrently on the pool.
func (db *DB) GetDashboardMetrics(ctx context.Context) (*types.DashboardMetrics, error) {
	var m types.DashboardMetrics
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications`).Scan(&m.TotalApplications)
	})
	g.Go(func() error {
		return db.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM jobs WHERE status = $1`, types.JobStatusActive,
		).Scan(&m.ActiveJobs)
	})
	g.Go(func() error {
		return db.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM interviews WHERE status = $1`, types.InterviewScheduled,
		).Scan(&m.ScheduledInterviews)
	})
	g.Go(func() error {
		return db.pool.QueryRow(ctx,
			`SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (updated_at - applied_at)) / 86400), 0)::float8
			 FROM applications WHERE status = $1`, types.StatusHired,
		).Scan(&m.TimeToHire)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute dashboard metrics: %w", err)
	}
	return &m, nil
}

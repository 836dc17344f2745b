package server

import (
	"context"
	"net/http"
	"time"

	"github.com/jonathan/talent-tracker/internal/cache"
	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/logger"
	"github.com/jonathan/talent-tracker/internal/types"
)

const (
	dashboardMetricsKey = "dashboard:metrics"
	dashboardMetricsTTL = 30 * time.Second
	recentApplications  = 10
)

// handlePipeline returns every application grouped by status
func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	projection, err := s.pipeline.Pipeline(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, projection)
}

// handleDashboardMetrics returns the dashboard counters. They are served
// from the cache for a short TTL when Redis is available.
func (s *Server) handleDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := cache.GetOrLoad(r.Context(), s.cache, dashboardMetricsKey, dashboardMetricsTTL,
		func(ctx context.Context) (*types.DashboardMetrics, error) {
			return s.store.GetDashboardMetrics(ctx)
		})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, m)
}

// handleRecentApplications returns the latest applications with joined names
func (s *Server) handleRecentApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.store.ListApplicationDetails(r.Context(), db.ApplicationFilters{Limit: recentApplications})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, apps)
}

// handleActivities returns the latest activities. The store clamps the limit.
func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		respondError(w, r, err)
		return
	}
	activities, err := s.activities.ListRecent(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, activities)
}

// invalidateDashboard drops cached counters after a write that changes them.
func (s *Server) invalidateDashboard(r *http.Request) {
	if err := s.cache.Delete(r.Context(), dashboardMetricsKey); err != nil {
		logger.FromContext(r.Context()).Debug("failed to invalidate dashboard metrics", logger.Error(err))
	}
}

// recordActivity appends to the activity log. Failures are logged and
// counted but never fail the request that caused them.
func (s *Server) recordActivity(r *http.Request, action string, ref types.EntityRef, metadata db.Metadata) {
	userID, err := currentUser(r)
	if err != nil {
		return
	}
	if _, err := s.activities.Record(r.Context(), userID, action, ref, metadata); err != nil {
		s.metrics.ActivityWriteFailed(action)
		logger.FromContext(r.Context()).Warn("failed to record activity",
			logger.String("action", action),
			logger.String("entity_type", string(ref.Kind)),
			logger.Int64("entity_id", ref.ID),
			logger.Error(err),
		)
	}
}

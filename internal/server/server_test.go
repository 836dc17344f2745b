package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/cache"
	"github.com/jonathan/talent-tracker/internal/config"
	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/logger"
	"github.com/jonathan/talent-tracker/internal/server/ratelimit"
	"github.com/jonathan/talent-tracker/internal/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipelineBody struct {
	Stats []struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
	} `json:"stats"`
	Applications []db.ApplicationDetail `json:"applications"`
	Groups       []struct {
		Status       string                 `json:"status"`
		Applications []db.ApplicationDetail `json:"applications"`
	} `json:"groups"`
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(nil, Deps{})
	assert.Error(t, err)

	_, err = New(&config.Config{Port: 8080}, Deps{Store: newFakeStore()})
	assert.Error(t, err)

	_, err = New(&config.Config{Port: 8080}, Deps{Store: newFakeStore(), Activities: &fakeActivities{}})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.doWithToken("", http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disabled", body["cache"])

	env.store.pingErr = errors.New("connection refused")
	w = env.doWithToken("", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unreachable", decode[map[string]string](t, w)["database"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/dashboard/pipeline"},
		{http.MethodPut, "/api/applications/1/status"},
		{http.MethodGet, "/api/applications/1/activities"},
		{http.MethodGet, "/api/jobs"},
		{http.MethodPost, "/api/candidates"},
		{http.MethodGet, "/api/interviews/today"},
		{http.MethodGet, "/api/auth/profile"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := env.doWithToken("", rt.method, rt.path, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			w = env.doWithToken("not-a-jwt", rt.method, rt.path, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestPipeline_ThreeApplications(t *testing.T) {
	env := newTestEnv(t)
	first := env.seedApplication("Ada", "Lovelace", "Engineer")
	second := env.seedApplication("Grace", "Hopper", "Engineer")
	third := env.seedApplication("Alan", "Turing", "Researcher")

	require.Equal(t, http.StatusOK, env.do(http.MethodPut, "/api/applications/"+itoa(second)+"/status",
		map[string]any{"status": "screening"}).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPut, "/api/applications/"+itoa(third)+"/status",
		map[string]any{"status": "hired"}).Code)

	w := env.do(http.MethodGet, "/api/dashboard/pipeline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[pipelineBody](t, w)

	require.Len(t, body.Stats, 3)
	assert.Equal(t, "applied", body.Stats[0].Status)
	assert.Equal(t, "screening", body.Stats[1].Status)
	assert.Equal(t, "hired", body.Stats[2].Status)
	for _, s := range body.Stats {
		assert.Equal(t, 1, s.Count)
	}

	require.Len(t, body.Applications, 3)
	assert.Equal(t, []int64{third, second, first},
		[]int64{body.Applications[0].ID, body.Applications[1].ID, body.Applications[2].ID})
	assert.Equal(t, "Alan Turing", body.Applications[0].CandidateName)
	assert.Equal(t, "Researcher", body.Applications[0].JobTitle)

	require.Len(t, body.Groups, 3)
	assert.Equal(t, first, body.Groups[0].Applications[0].ID)
}

func TestPipeline_EmptyAndStorageError(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/dashboard/pipeline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[pipelineBody](t, w)
	assert.Empty(t, body.Stats)
	assert.Empty(t, body.Applications)
	assert.Empty(t, body.Groups)

	env.store.listErr = errors.New("pool exhausted")
	w = env.do(http.MethodGet, "/api/dashboard/pipeline", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode[map[string]any](t, w)["error"])
	assert.NotContains(t, w.Body.String(), "pool exhausted")
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedApplication("Ada", "Lovelace", "Engineer")
	path := "/api/applications/" + itoa(id) + "/status"

	t.Run("moves application and records activity", func(t *testing.T) {
		w := env.do(http.MethodPut, path, map[string]any{"status": "interview"})
		require.Equal(t, http.StatusOK, w.Code)
		app := decode[db.Application](t, w)
		assert.Equal(t, types.Status("interview"), app.Status)
		assert.Equal(t, 2, app.Version)
		assert.Equal(t, []string{types.ActionMovedCandidate}, env.activities.actions())

		entry := env.activities.entries[0]
		assert.Equal(t, env.userID, entry.UserID)
		assert.Equal(t, types.ApplicationRef(id), entry.EntityRef)
		assert.Equal(t, "interview", entry.Metadata["status"])
	})

	t.Run("unknown status is stored as-is", func(t *testing.T) {
		w := env.do(http.MethodPut, path, map[string]any{"status": "on_hold"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, types.Status("on_hold"), decode[db.Application](t, w).Status)
	})

	t.Run("missing status", func(t *testing.T) {
		before := len(env.activities.actions())
		w := env.do(http.MethodPut, path, map[string]any{})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[errorBody](t, w)
		assert.Equal(t, "status is required", body.Error)
		require.Len(t, body.Fields, 1)
		assert.Equal(t, "status", body.Fields[0].Field)
		assert.Len(t, env.activities.actions(), before)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := env.do(http.MethodPut, path, "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		w := env.do(http.MethodPut, "/api/applications/abc/status", map[string]any{"status": "hired"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown application", func(t *testing.T) {
		before := len(env.activities.actions())
		w := env.do(http.MethodPut, "/api/applications/9999/status", map[string]any{"status": "hired"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Len(t, env.activities.actions(), before)
	})

	t.Run("version token", func(t *testing.T) {
		current, err := env.store.GetApplication(context.Background(), id)
		require.NoError(t, err)

		w := env.do(http.MethodPut, path, map[string]any{"status": "offer", "version": current.Version - 1})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, decode[errorBody](t, w).Error, "was modified")

		w = env.do(http.MethodPut, path, map[string]any{"status": "offer", "version": current.Version})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, current.Version+1, decode[db.Application](t, w).Version)
	})

	t.Run("zero version is invalid", func(t *testing.T) {
		w := env.do(http.MethodPut, path, map[string]any{"status": "offer", "version": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateStatus_ActivityFailureStillSucceeds(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedApplication("Ada", "Lovelace", "Engineer")
	env.activities.recordErr = errors.New("activities table locked")

	w := env.do(http.MethodPut, "/api/applications/"+itoa(id)+"/status", map[string]any{"status": "hired"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.StatusHired, env.store.applications[id].Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.ActivityFailures.WithLabelValues(types.ActionMovedCandidate)))
}

func TestCORS(t *testing.T) {
	t.Run("any origin by default", func(t *testing.T) {
		env := newTestEnv(t)
		req := newRequest(http.MethodOptions, "/api/jobs")
		req.Header.Set("Origin", "http://localhost:5173")
		w := serve(env.srv, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
	})

	t.Run("allowlist", func(t *testing.T) {
		store := newFakeStore()
		srv, err := New(&config.Config{Port: 8080, CORSAllowedOrigins: []string{"https://talent.example.com"}}, Deps{
			Store: store, Activities: &fakeActivities{}, JWT: testJWTConfig,
			Password:  &config.PasswordConfig{BcryptCost: config.MinBcryptCost},
			RateLimit: &ratelimit.Config{Enabled: false},
		})
		require.NoError(t, err)

		req := newRequest(http.MethodGet, "/health")
		req.Header.Set("Origin", "https://talent.example.com")
		w := serve(srv, req)
		assert.Equal(t, "https://talent.example.com", w.Header().Get("Access-Control-Allow-Origin"))

		req = newRequest(http.MethodGet, "/health")
		req.Header.Set("Origin", "https://evil.example.com")
		w = serve(srv, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestIDAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	req := newRequest(http.MethodGet, "/health")
	req.Header.Set(requestIDHeader, "req-123")
	w := serve(env.srv, req)
	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))

	w = env.doWithToken("", http.MethodGet, "/health", nil)
	_, err := uuid.Parse(w.Header().Get(requestIDHeader))
	assert.NoError(t, err, "generated request IDs are UUIDs")

	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.HTTPRequests.WithLabelValues("GET", "GET /health", "200")))

	w = env.doWithToken("", http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "talent_tracker_http_requests_total")
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.RateLimit = &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  1000,
			DefaultWindow: time.Minute,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/api/auth/login", Method: "POST", Limit: 2, Window: time.Minute, Burst: 2},
				{Path: "/health", Method: "GET", Limit: 0},
			},
		}
	})

	login := map[string]string{"email": "nobody@example.com", "password": "wrong-password"}
	for i := 0; i < 2; i++ {
		w := env.doWithToken("", http.MethodPost, "/api/auth/login", login)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := env.doWithToken("", http.MethodPost, "/api/auth/login", login)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[map[string]any](t, w)["error"])
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.RateLimited.WithLabelValues("/api/auth/login")))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, env.doWithToken("", http.MethodGet, "/health", nil).Code)
	}
}

func TestRateLimitLabel(t *testing.T) {
	assert.Equal(t, "/api/applications/{id}/status", rateLimitLabel("/api/applications/42/status"))
	assert.Equal(t, "/api/jobs", rateLimitLabel("/api/jobs"))
}

func TestDashboardMetrics_Cached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env := newTestEnv(t, func(d *Deps) {
		d.Cache = cache.New(client, logger.NewNop(), d.Metrics)
	})
	id := env.seedApplication("Ada", "Lovelace", "Engineer")

	for i := 0; i < 3; i++ {
		w := env.do(http.MethodGet, "/api/dashboard/metrics", nil)
		require.Equal(t, http.StatusOK, w.Code)
		m := decode[types.DashboardMetrics](t, w)
		assert.Equal(t, int64(1), m.TotalApplications)
		assert.Equal(t, int64(1), m.ActiveJobs)
	}
	assert.Equal(t, 1, env.store.metricsCalls)
	assert.True(t, mr.Exists(dashboardMetricsKey))

	require.Equal(t, http.StatusOK, env.do(http.MethodPut, "/api/applications/"+itoa(id)+"/status",
		map[string]any{"status": "hired"}).Code)
	assert.False(t, mr.Exists(dashboardMetricsKey), "status change invalidates cached counters")

	env.do(http.MethodGet, "/api/dashboard/metrics", nil)
	assert.Equal(t, 2, env.store.metricsCalls)

	w := env.doWithToken("", http.MethodGet, "/health", nil)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["cache"])
}

func TestDashboardMetrics_WithoutCache(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodGet, "/api/dashboard/metrics", nil)
	env.do(http.MethodGet, "/api/dashboard/metrics", nil)
	assert.Equal(t, 2, env.store.metricsCalls)
}

func TestDashboard_RecentApplicationsAndActivities(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		env.seedApplication(name, "Doe", "Engineer")
	}

	w := env.do(http.MethodGet, "/api/dashboard/recent-applications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	recent := decode[[]db.ApplicationDetail](t, w)
	require.Len(t, recent, recentApplications)
	assert.Equal(t, "l Doe", recent[0].CandidateName)

	env.do(http.MethodPost, "/api/jobs", map[string]any{"title": "Designer", "description": "Pixels", "type": "contract"})

	w = env.do(http.MethodGet, "/api/dashboard/activities?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	acts := decode[[]db.ActivityDetail](t, w)
	require.Len(t, acts, 1)
	assert.Equal(t, types.ActionPostedJob, acts[0].Action)
	assert.Equal(t, "Designer", acts[0].Metadata["jobTitle"])

	w = env.do(http.MethodGet, "/api/dashboard/activities?limit=ten", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	w := env.doWithToken("", http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	env := newTestEnv(t)
	env.srv.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStart_ListenError(t *testing.T) {
	env := newTestEnv(t)
	env.srv.httpServer.Addr = "invalid-address"

	err := env.srv.Start(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "server error"))
}

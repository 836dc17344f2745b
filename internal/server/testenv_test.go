package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/config"
	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/logger"
	"github.com/jonathan/talent-tracker/internal/metrics"
	"github.com/jonathan/talent-tracker/internal/server/ratelimit"
	"github.com/jonathan/talent-tracker/internal/types"
	"github.com/stretchr/testify/require"
)

var testJWTConfig = &config.JWTConfig{Secret: "test-secret", ExpirationHours: 1, Issuer: config.DefaultJWTIssuer}

type testEnv struct {
	t          *testing.T
	srv        *Server
	store      *fakeStore
	activities *fakeActivities
	metrics    *metrics.Metrics
	userID     uuid.UUID
	token      string
}

// newTestEnv builds a server over in-memory stores with one signed-in user.
// Rate limiting is off unless a Deps option turns it on.
func newTestEnv(t *testing.T, opts ...func(*Deps)) *testEnv {
	t.Helper()
	store := newFakeStore()
	activities := &fakeActivities{}
	m := metrics.New()

	deps := Deps{
		Store:      store,
		Activities: activities,
		Metrics:    m,
		Logger:     logger.NewNop(),
		JWT:        testJWTConfig,
		Password:   &config.PasswordConfig{BcryptCost: config.MinBcryptCost},
		RateLimit:  &ratelimit.Config{Enabled: false},
		Now:        func() time.Time { return testNow },
	}
	for _, opt := range opts {
		opt(&deps)
	}

	srv, err := New(&config.Config{Port: 8080}, deps)
	require.NoError(t, err)
	t.Cleanup(srv.rateLimiter.Stop)

	userID, err := store.CreateUser(context.Background(), "Riley Recruiter", "riley@example.com", "")
	require.NoError(t, err)
	token, err := NewJWTService(testJWTConfig).GenerateToken(userID)
	require.NoError(t, err)

	return &testEnv{t: t, srv: srv, store: store, activities: activities, metrics: m, userID: userID, token: token}
}

// do sends an authenticated request through the full handler chain.
func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	return e.doWithToken(e.token, method, path, body)
}

func (e *testEnv) doWithToken(token, method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// seedApplication creates a candidate, a job and an application linking them.
func (e *testEnv) seedApplication(first, last, jobTitle string) int64 {
	e.t.Helper()
	ctx := context.Background()
	c, err := e.store.CreateCandidate(ctx, &types.CreateCandidateRequest{FirstName: first, LastName: last, Email: first + "@example.com"})
	require.NoError(e.t, err)
	j, err := e.store.CreateJob(ctx, &types.CreateJobRequest{Title: jobTitle, Description: "d", Type: "full-time"}, e.userID)
	require.NoError(e.t, err)
	a, err := e.store.CreateApplication(ctx, db.ApplicationInput{CandidateID: c.ID, JobID: j.ID})
	require.NoError(e.t, err)
	return a.ID
}

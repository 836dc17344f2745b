package server

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/types"
)

var testNow = time.Date(2026, 3, 9, 10, 30, 0, 0, time.UTC)

// fakeStore is an in-memory Store with the same nil-on-miss and constraint
// error behavior as the Postgres store.
type fakeStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]*db.User
	jobs         map[int64]*db.Job
	candidates   map[int64]*db.Candidate
	applications map[int64]*db.Application
	interviews   map[int64]*db.Interview
	notes        []db.Note
	nextID       int64

	listErr      error
	pingErr      error
	metricsCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[uuid.UUID]*db.User{},
		jobs:         map[int64]*db.Job{},
		candidates:   map[int64]*db.Candidate{},
		applications: map[int64]*db.Application{},
		interviews:   map[int64]*db.Interview{},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

// Users

func (f *fakeStore) CreateUser(_ context.Context, name, email, phone string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return uuid.Nil, &db.ErrDuplicate{Constraint: "users_email_lower_idx"}
		}
	}
	id := uuid.New()
	f.users[id] = &db.User{ID: id, Name: name, Email: email, Phone: phone,
		Role: types.RoleRecruiter, CreatedAt: testNow, UpdatedAt: testNow}
	return id, nil
}

func (f *fakeStore) GetUser(_ context.Context, userID uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := f.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (f *fakeStore) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	return nil
}

// Jobs

func (f *fakeStore) CreateJob(_ context.Context, req *types.CreateJobRequest, postedBy uuid.UUID) (*db.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status := req.Status
	if status == "" {
		status = types.JobStatusActive
	}
	job := &db.Job{ID: f.id(), Title: req.Title, Description: req.Description, Type: req.Type,
		Status: status, PostedBy: &postedBy, CreatedAt: testNow, UpdatedAt: testNow}
	f.jobs[job.ID] = job
	cp := *job
	return &cp, nil
}

func (f *fakeStore) GetJob(_ context.Context, id int64) (*db.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (f *fakeStore) ListJobs(_ context.Context) ([]db.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	jobs := []db.Job{}
	for _, j := range f.jobs {
		jobs = append(jobs, *j)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].ID > jobs[k].ID })
	return jobs, nil
}

func (f *fakeStore) UpdateJob(_ context.Context, id int64, req *types.UpdateJobRequest) (*db.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	if req.Title != nil {
		j.Title = *req.Title
	}
	if req.Status != nil {
		j.Status = *req.Status
	}
	cp := *j
	return &cp, nil
}

func (f *fakeStore) DeleteJob(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[id]; !ok {
		return false, nil
	}
	for _, a := range f.applications {
		if a.JobID == id {
			return false, &db.ErrReference{Constraint: "applications_job_id_fkey"}
		}
	}
	delete(f.jobs, id)
	return true, nil
}

// Candidates

func (f *fakeStore) CreateCandidate(_ context.Context, req *types.CreateCandidateRequest) (*db.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.candidates {
		if strings.EqualFold(c.Email, req.Email) {
			return nil, &db.ErrDuplicate{Constraint: "candidates_email_key"}
		}
	}
	c := &db.Candidate{ID: f.id(), FirstName: req.FirstName, LastName: req.LastName, Email: req.Email,
		Skills: req.Skills, CreatedAt: testNow, UpdatedAt: testNow}
	f.candidates[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeStore) GetCandidate(_ context.Context, id int64) (*db.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) ListCandidates(_ context.Context, search string) ([]db.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	needle := strings.ToLower(search)
	out := []db.Candidate{}
	for _, c := range f.candidates {
		hay := strings.ToLower(c.FirstName + " " + c.LastName + " " + c.Email)
		if needle == "" || strings.Contains(hay, needle) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID > out[k].ID })
	return out, nil
}

func (f *fakeStore) UpdateCandidate(_ context.Context, id int64, req *types.UpdateCandidateRequest) (*db.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[id]
	if !ok {
		return nil, nil
	}
	if req.FirstName != nil {
		c.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		c.LastName = *req.LastName
	}
	cp := *c
	return &cp, nil
}

// Applications

func (f *fakeStore) CreateApplication(_ context.Context, in db.ApplicationInput) (*db.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.candidates[in.CandidateID]; !ok {
		return nil, &db.ErrReference{Constraint: "applications_candidate_id_fkey"}
	}
	if _, ok := f.jobs[in.JobID]; !ok {
		return nil, &db.ErrReference{Constraint: "applications_job_id_fkey"}
	}
	status := in.Status
	if status == "" {
		status = types.StatusApplied
	}
	a := &db.Application{ID: f.id(), CandidateID: in.CandidateID, JobID: in.JobID, Status: status,
		Score: in.Score, Source: in.Source, AssignedTo: in.AssignedTo,
		AppliedAt: testNow.Add(time.Duration(f.nextID) * time.Minute), UpdatedAt: testNow, Version: 1}
	f.applications[a.ID] = a
	cp := *a
	return &cp, nil
}

func (f *fakeStore) GetApplication(_ context.Context, id int64) (*db.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.applications[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) detail(a *db.Application) db.ApplicationDetail {
	d := db.ApplicationDetail{Application: *a}
	if c, ok := f.candidates[a.CandidateID]; ok {
		d.CandidateName = c.FullName()
		d.CandidateEmail = c.Email
	}
	if j, ok := f.jobs[a.JobID]; ok {
		d.JobTitle = j.Title
	}
	return d
}

func (f *fakeStore) GetApplicationDetail(_ context.Context, id int64) (*db.ApplicationDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.applications[id]
	if !ok {
		return nil, nil
	}
	d := f.detail(a)
	return &d, nil
}

func (f *fakeStore) ListApplicationDetails(_ context.Context, filters db.ApplicationFilters) ([]db.ApplicationDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []db.ApplicationDetail{}
	for _, a := range f.applications {
		if filters.JobID > 0 && a.JobID != filters.JobID {
			continue
		}
		if filters.CandidateID > 0 && a.CandidateID != filters.CandidateID {
			continue
		}
		if filters.Status != "" && a.Status != filters.Status {
			continue
		}
		out = append(out, f.detail(a))
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].AppliedAt.Equal(out[k].AppliedAt) {
			return out[i].AppliedAt.After(out[k].AppliedAt)
		}
		return out[i].ID < out[k].ID
	})
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateApplicationStatus(_ context.Context, id int64, status types.Status, expectedVersion *int) (*db.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.applications[id]
	if !ok || (expectedVersion != nil && a.Version != *expectedVersion) {
		return nil, nil
	}
	a.Status = status
	a.Version++
	a.UpdatedAt = testNow.Add(time.Hour)
	cp := *a
	return &cp, nil
}

// Interviews

func (f *fakeStore) CreateInterview(_ context.Context, in db.InterviewInput) (*db.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.applications[in.ApplicationID]; !ok {
		return nil, &db.ErrReference{Constraint: "interviews_application_id_fkey"}
	}
	duration := in.Duration
	if duration <= 0 {
		duration = 60
	}
	i := &db.Interview{ID: f.id(), ApplicationID: in.ApplicationID, InterviewerID: in.InterviewerID,
		ScheduledAt: in.ScheduledAt, Duration: duration, Type: in.Type,
		Status: types.InterviewScheduled, CreatedAt: testNow, UpdatedAt: testNow}
	f.interviews[i.ID] = i
	cp := *i
	return &cp, nil
}

func (f *fakeStore) ListInterviews(_ context.Context) ([]db.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db.Interview{}
	for _, i := range f.interviews {
		out = append(out, *i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ScheduledAt.After(out[b].ScheduledAt) })
	return out, nil
}

func (f *fakeStore) interviewDetails(keep func(db.Interview) bool) []db.InterviewDetail {
	out := []db.InterviewDetail{}
	for _, i := range f.interviews {
		if !keep(*i) {
			continue
		}
		d := db.InterviewDetail{Interview: *i}
		if a, ok := f.applications[i.ApplicationID]; ok {
			ad := f.detail(a)
			d.CandidateName = ad.CandidateName
			d.JobTitle = ad.JobTitle
		}
		if u, ok := f.users[i.InterviewerID]; ok {
			d.InterviewerName = u.Name
		}
		out = append(out, d)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ScheduledAt.Before(out[b].ScheduledAt) })
	return out
}

func (f *fakeStore) ListInterviewsBetween(_ context.Context, from, to time.Time) ([]db.InterviewDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.interviewDetails(func(i db.Interview) bool {
		return !i.ScheduledAt.Before(from) && i.ScheduledAt.Before(to)
	}), nil
}

func (f *fakeStore) ListUpcomingInterviews(_ context.Context, now time.Time, limit int) ([]db.InterviewDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.interviewDetails(func(i db.Interview) bool { return !i.ScheduledAt.Before(now) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Notes

func (f *fakeStore) CreateNote(_ context.Context, applicationID int64, authorID uuid.UUID, content string, isPrivate bool) (*db.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.applications[applicationID]; !ok {
		return nil, &db.ErrReference{Constraint: "notes_application_id_fkey"}
	}
	n := db.Note{ID: f.id(), ApplicationID: applicationID, AuthorID: authorID, Content: content,
		IsPrivate: isPrivate, CreatedAt: testNow.Add(time.Duration(f.nextID) * time.Second)}
	f.notes = append(f.notes, n)
	return &n, nil
}

func (f *fakeStore) ListNotesByApplication(_ context.Context, applicationID int64, viewerID uuid.UUID) ([]db.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db.Note{}
	for i := len(f.notes) - 1; i >= 0; i-- {
		n := f.notes[i]
		if n.ApplicationID == applicationID && (!n.IsPrivate || n.AuthorID == viewerID) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Dashboard

func (f *fakeStore) GetDashboardMetrics(_ context.Context) (*types.DashboardMetrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metricsCalls++
	m := &types.DashboardMetrics{TotalApplications: int64(len(f.applications))}
	for _, j := range f.jobs {
		if j.Status == types.JobStatusActive {
			m.ActiveJobs++
		}
	}
	for _, i := range f.interviews {
		if i.Status == types.InterviewScheduled {
			m.ScheduledInterviews++
		}
	}
	return m, nil
}

func (f *fakeStore) Ping(_ context.Context) error {
	return f.pingErr
}

// fakeActivities is an in-memory ActivityStore.
type fakeActivities struct {
	mu        sync.Mutex
	entries   []db.Activity
	recordErr error
}

func (a *fakeActivities) Record(_ context.Context, userID uuid.UUID, action string, ref types.EntityRef, metadata db.Metadata) (*db.Activity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.recordErr != nil {
		return nil, a.recordErr
	}
	act := db.Activity{ID: int64(len(a.entries) + 1), UserID: userID, Action: action,
		EntityRef: ref, Metadata: metadata, CreatedAt: testNow}
	a.entries = append(a.entries, act)
	return &act, nil
}

func (a *fakeActivities) ListRecent(_ context.Context, limit int) ([]db.ActivityDetail, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if limit <= 0 {
		limit = 10
	}
	out := []db.ActivityDetail{}
	for i := len(a.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, db.ActivityDetail{Activity: a.entries[i]})
	}
	return out, nil
}

func (a *fakeActivities) ListByEntity(_ context.Context, ref types.EntityRef) ([]db.ActivityDetail, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []db.ActivityDetail{}
	for i := len(a.entries) - 1; i >= 0; i-- {
		if a.entries[i].EntityRef == ref {
			out = append(out, db.ActivityDetail{Activity: a.entries[i]})
		}
	}
	return out, nil
}

func (a *fakeActivities) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

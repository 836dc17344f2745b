package db

import (
	"context"
	"fmt"
	"time"
)

const defaultInterviewDuration = 60

const interviewColumns = `id, application_id, interviewer_id, scheduled_at, duration, type, status,
	meeting_url, notes, feedback, rating, created_at, updated_at`

const interviewDetailSelect = `SELECT i.id, i.application_id, i.interviewer_id, i.scheduled_at,
	i.duration, i.type, i.status, i.meeting_url, i.notes, i.feedback, i.rating,
	i.created_at, i.updated_at,
	c.first_name || ' ' || c.last_name AS candidate_name, j.title,
	COALESCE(u.name, '') AS interviewer_name
	FROM interviews i
	JOIN applications a ON a.id = i.application_id
	JOIN candidates c ON c.id = a.candidate_id
	JOIN jobs j ON j.id = a.job_id
	LEFT JOIN users u ON u.id = i.interviewer_id`

func scanInterview(row interface{ Scan(dest ...any) error }) (*Interview, error) {
	var i Interview
	if err := row.Scan(&i.ID, &i.ApplicationID, &i.InterviewerID, &i.ScheduledAt, &i.Duration,
		&i.Type, &i.Status, &i.MeetingURL, &i.Notes, &i.Feedback, &i.Rating,
		&i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

func scanInterviewDetail(row interface{ Scan(dest ...any) error }) (*InterviewDetail, error) {
	var d InterviewDetail
	if err := row.Scan(&d.ID, &d.ApplicationID, &d.InterviewerID, &d.ScheduledAt, &d.Duration,
		&d.Type, &d.Status, &d.MeetingURL, &d.Notes, &d.Feedback, &d.Rating,
		&d.CreatedAt, &d.UpdatedAt, &d.CandidateName, &d.JobTitle, &d.InterviewerName); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateInterview schedules an interview. A missing application fails with ErrReference.
func (db *DB) CreateInterview(ctx context.Context, in InterviewInput) (*Interview, error) {
	duration := in.Duration
	if duration <= 0 {
		duration = defaultInterviewDuration
	}
	interview, err := scanInterview(db.pool.QueryRow(ctx,
		`INSERT INTO interviews (application_id, interviewer_id, scheduled_at, duration, type,
		                         meeting_url, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+interviewColumns,
		in.ApplicationID, in.InterviewerID, in.ScheduledAt, duration, in.Type, in.MeetingURL, in.Notes,
	))
	if err != nil {
		return nil, classifyError("create interview", err)
	}
	return interview, nil
}

// ListInterviews returns every interview, latest scheduled first
func (db *DB) ListInterviews(ctx context.Context) ([]Interview, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+interviewColumns+` FROM interviews ORDER BY scheduled_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	interviews := []Interview{}
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, *interview)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interviews: %w", err)
	}
	return interviews, nil
}

// ListInterviewsBetween returns joined interviews scheduled in [from, to), earliest first.
func (db *DB) ListInterviewsBetween(ctx context.Context, from, to time.Time) ([]InterviewDetail, error) {
	return db.listInterviewDetails(ctx,
		interviewDetailSelect+` WHERE i.scheduled_at >= $1 AND i.scheduled_at < $2
		 ORDER BY i.scheduled_at ASC, i.id ASC`, from, to)
}

// ListUpcomingInterviews returns the next joined interviews from now, earliest first.
func (db *DB) ListUpcomingInterviews(ctx context.Context, now time.Time, limit int) ([]InterviewDetail, error) {
	return db.listInterviewDetails(ctx,
		interviewDetailSelect+` WHERE i.scheduled_at >= $1
		 ORDER BY i.scheduled_at ASC, i.id ASC LIMIT $2`, now, limit)
}

func (db *DB) listInterviewDetails(ctx context.Context, query string, args ...any) ([]InterviewDetail, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	details := []InterviewDetail{}
	for rows.Next() {
		detail, err := scanInterviewDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		details = append(details, *detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interviews: %w", err)
	}
	return details, nil
}

// DayBounds returns the start of t's day and the start of the next day in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

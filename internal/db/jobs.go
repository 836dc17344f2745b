package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/types"
)

const jobColumns = `id, title, description, department, location, type, status, salary,
	requirements, benefits, posted_by, created_at, updated_at`

func scanJob(row interface{ Scan(dest ...any) error }) (*Job, error) {
	var j Job
	if err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Department, &j.Location, &j.Type,
		&j.Status, &j.Salary, &j.Requirements, &j.Benefits, &j.PostedBy,
		&j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJob inserts a job posting. An empty status defaults to active.
func (db *DB) CreateJob(ctx context.Context, req *types.CreateJobRequest, postedBy uuid.UUID) (*Job, error) {
	status := req.Status
	if status == "" {
		status = types.JobStatusActive
	}
	job, err := scanJob(db.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, description, department, location, type, status, salary,
		                   requirements, benefits, posted_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+jobColumns,
		req.Title, req.Description, req.Department, req.Location, req.Type, status,
		req.Salary, req.Requirements, req.Benefits, postedBy,
	))
	if err != nil {
		return nil, classifyError("create job", err)
	}
	return job, nil
}

// GetJob retrieves a job by ID. Returns nil, nil if not found.
func (db *DB) GetJob(ctx context.Context, id int64) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListJobs returns every job, newest first
func (db *DB) ListJobs(ctx context.Context) ([]Job, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// buildJobUpdate builds the SET clause for a partial job update. It returns
// an empty query when nothing changes.
func buildJobUpdate(id int64, req *types.UpdateJobRequest) (string, []any) {
	sets := []string{}
	args := []any{}
	argNum := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Department != nil {
		add("department", *req.Department)
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.Type != nil {
		add("type", *req.Type)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.Salary != nil {
		add("salary", *req.Salary)
	}
	if req.Requirements != nil {
		add("requirements", *req.Requirements)
	}
	if req.Benefits != nil {
		add("benefits", *req.Benefits)
	}
	if len(sets) == 0 {
		return "", nil
	}

	query := fmt.Sprintf(`UPDATE jobs SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argNum, jobColumns)
	args = append(args, id)
	return query, args
}

// UpdateJob applies a partial update. Returns nil, nil if not found.
func (db *DB) UpdateJob(ctx context.Context, id int64, req *types.UpdateJobRequest) (*Job, error) {
	query, args := buildJobUpdate(id, req)
	if query == "" {
		return db.GetJob(ctx, id)
	}
	job, err := scanJob(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classifyError("update job", err)
	}
	return job, nil
}

// DeleteJob deletes a job. Applications are not cascaded, so a job that is
// still referenced fails with ErrReference. Returns false if not found.
func (db *DB) DeleteJob(ctx context.Context, id int64) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return false, classifyError("delete job", err)
	}
	return result.RowsAffected() > 0, nil
}

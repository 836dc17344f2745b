package db

import (
	"context"
	"fmt"

	"github.com/jonathan/talent-tracker/internal/types"
)

const applicationColumns = `id, candidate_id, job_id, status, score, source, assigned_to,
	applied_at, updated_at, version`

// applicationDetailSelect joins the candidate name and job title at read time.
const applicationDetailSelect = `SELECT a.id, a.candidate_id, a.job_id, a.status, a.score, a.source,
	a.assigned_to, a.applied_at, a.updated_at, a.version,
	c.first_name || ' ' || c.last_name AS candidate_name, c.email, j.title
	FROM applications a
	JOIN candidates c ON c.id = a.candidate_id
	JOIN jobs j ON j.id = a.job_id`

func scanApplication(row interface{ Scan(dest ...any) error }) (*Application, error) {
	var a Application
	if err := row.Scan(&a.ID, &a.CandidateID, &a.JobID, &a.Status, &a.Score, &a.Source,
		&a.AssignedTo, &a.AppliedAt, &a.UpdatedAt, &a.Version); err != nil {
		return nil, err
	}
	return &a, nil
}

func scanApplicationDetail(row interface{ Scan(dest ...any) error }) (*ApplicationDetail, error) {
	var d ApplicationDetail
	if err := row.Scan(&d.ID, &d.CandidateID, &d.JobID, &d.Status, &d.Score, &d.Source,
		&d.AssignedTo, &d.AppliedAt, &d.UpdatedAt, &d.Version,
		&d.CandidateName, &d.CandidateEmail, &d.JobTitle); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateApplication inserts an application. An empty status defaults to
// applied. A missing candidate or job fails with ErrReference.
func (db *DB) CreateApplication(ctx context.Context, in ApplicationInput) (*Application, error) {
	status := in.Status
	if status == "" {
		status = types.StatusApplied
	}
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`INSERT INTO applications (candidate_id, job_id, status, score, source, assigned_to)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+applicationColumns,
		in.CandidateID, in.JobID, status, in.Score, in.Source, in.AssignedTo,
	))
	if err != nil {
		return nil, classifyError("create application", err)
	}
	return app, nil
}

// GetApplication retrieves an application by ID. Returns nil, nil if not found.
func (db *DB) GetApplication(ctx context.Context, id int64) (*Application, error) {
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// GetApplicationDetail retrieves one joined application. Returns nil, nil if not found.
func (db *DB) GetApplicationDetail(ctx context.Context, id int64) (*ApplicationDetail, error) {
	detail, err := scanApplicationDetail(db.pool.QueryRow(ctx,
		applicationDetailSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application detail: %w", err)
	}
	return detail, nil
}

// buildApplicationDetailQuery builds the filtered list query, newest applied first.
func buildApplicationDetailQuery(filters ApplicationFilters) (string, []any) {
	query := applicationDetailSelect + ` WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.JobID > 0 {
		query += fmt.Sprintf(" AND a.job_id = $%d", argNum)
		args = append(args, filters.JobID)
		argNum++
	}
	if filters.CandidateID > 0 {
		query += fmt.Sprintf(" AND a.candidate_id = $%d", argNum)
		args = append(args, filters.CandidateID)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND a.status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += " ORDER BY a.applied_at DESC, a.id ASC"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filters.Limit)
	}
	return query, args
}

// ListApplicationDetails returns joined applications matching filters.
func (db *DB) ListApplicationDetails(ctx context.Context, filters ApplicationFilters) ([]ApplicationDetail, error) {
	query, args := buildApplicationDetailQuery(filters)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	details := []ApplicationDetail{}
	for rows.Next() {
		detail, err := scanApplicationDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		details = append(details, *detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return details, nil
}

// UpdateApplicationStatus overwrites the status, stamps updated_at and bumps
// the version in a single-row update. With a nil expectedVersion the last
// writer wins. With a version, the row only changes if it still carries that
// version. Returns nil, nil when no row was updated.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id int64, status types.Status, expectedVersion *int) (*Application, error) {
	query := `UPDATE applications
		SET status = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2`
	args := []any{status, id}
	if expectedVersion != nil {
		query += ` AND version = $3`
		args = append(args, *expectedVersion)
	}
	query += ` RETURNING ` + applicationColumns

	app, err := scanApplication(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return app, nil
}

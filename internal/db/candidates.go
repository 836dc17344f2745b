package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/talent-tracker/internal/types"
)

const candidateColumns = `id, first_name, last_name, email, phone, location, resume_url, linkedin_url,
	portfolio_url, skills, experience, education, notes, created_at, updated_at`

func scanCandidate(row interface{ Scan(dest ...any) error }) (*Candidate, error) {
	var c Candidate
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Location,
		&c.ResumeURL, &c.LinkedinURL, &c.PortfolioURL, &c.Skills, &c.Experience,
		&c.Education, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if c.Skills == nil {
		c.Skills = []string{}
	}
	return &c, nil
}

// CreateCandidate inserts a candidate. A duplicate email fails with ErrDuplicate.
func (db *DB) CreateCandidate(ctx context.Context, req *types.CreateCandidateRequest) (*Candidate, error) {
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	candidate, err := scanCandidate(db.pool.QueryRow(ctx,
		`INSERT INTO candidates (first_name, last_name, email, phone, location, resume_url,
		                         linkedin_url, portfolio_url, skills, experience, education, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+candidateColumns,
		req.FirstName, req.LastName, req.Email, req.Phone, req.Location, req.ResumeURL,
		req.LinkedinURL, req.PortfolioURL, skills, req.Experience, req.Education, req.Notes,
	))
	if err != nil {
		return nil, classifyError("create candidate", err)
	}
	return candidate, nil
}

// GetCandidate retrieves a candidate by ID. Returns nil, nil if not found.
func (db *DB) GetCandidate(ctx context.Context, id int64) (*Candidate, error) {
	candidate, err := scanCandidate(db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return candidate, nil
}

// ListCandidates returns candidates newest first. A non-empty search matches
// first name, last name or email case-insensitively.
func (db *DB) ListCandidates(ctx context.Context, search string) ([]Candidate, error) {
	query, args := buildCandidateSearch(search)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []Candidate{}
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return candidates, nil
}

func buildCandidateSearch(search string) (string, []any) {
	query := `SELECT ` + candidateColumns + ` FROM candidates`
	args := []any{}

	search = strings.TrimSpace(search)
	if search != "" {
		query += ` WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+escapeLike(search)+"%")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	return query, args
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func buildCandidateUpdate(id int64, req *types.UpdateCandidateRequest) (string, []any) {
	sets := []string{}
	args := []any{}
	argNum := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if req.FirstName != nil {
		add("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		add("last_name", *req.LastName)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.ResumeURL != nil {
		add("resume_url", *req.ResumeURL)
	}
	if req.LinkedinURL != nil {
		add("linkedin_url", *req.LinkedinURL)
	}
	if req.PortfolioURL != nil {
		add("portfolio_url", *req.PortfolioURL)
	}
	if req.Skills != nil {
		skills := *req.Skills
		if skills == nil {
			skills = []string{}
		}
		add("skills", skills)
	}
	if req.Experience != nil {
		add("experience", *req.Experience)
	}
	if req.Education != nil {
		add("education", *req.Education)
	}
	if req.Notes != nil {
		add("notes", *req.Notes)
	}
	if len(sets) == 0 {
		return "", nil
	}

	query := fmt.Sprintf(`UPDATE candidates SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argNum, candidateColumns)
	args = append(args, id)
	return query, args
}

// UpdateCandidate applies a partial update. Returns nil, nil if not found.
func (db *DB) UpdateCandidate(ctx context.Context, id int64, req *types.UpdateCandidateRequest) (*Candidate, error) {
	query, args := buildCandidateUpdate(id, req)
	if query == "" {
		return db.GetCandidate(ctx, id)
	}
	candidate, err := scanCandidate(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classifyError("update candidate", err)
	}
	return candidate, nil
}

package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateNote adds a note to an application
func (db *DB) CreateNote(ctx context.Context, applicationID int64, authorID uuid.UUID, content string, isPrivate bool) (*Note, error) {
	var n Note
	err := db.pool.QueryRow(ctx,
		`INSERT INTO notes (application_id, author_id, content, is_private)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, application_id, author_id, content, is_private, created_at`,
		applicationID, authorID, content, isPrivate,
	).Scan(&n.ID, &n.ApplicationID, &n.AuthorID, &n.Content, &n.IsPrivate, &n.CreatedAt)
	if err != nil {
		return nil, classifyError("create note", err)
	}
	return &n, nil
}

// ListNotesByApplication returns an application's notes newest first.
// Private notes are only returned to their author.
func (db *DB) ListNotesByApplication(ctx context.Context, applicationID int64, viewerID uuid.UUID) ([]Note, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT n.id, n.application_id, n.author_id, COALESCE(u.name, ''), n.content, n.is_private, n.created_at
		 FROM notes n
		 LEFT JOIN users u ON u.id = n.author_id
		 WHERE n.application_id = $1 AND (n.is_private = FALSE OR n.author_id = $2)
		 ORDER BY n.created_at DESC, n.id DESC`,
		applicationID, viewerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.ApplicationID, &n.AuthorID, &n.AuthorName, &n.Content,
			&n.IsPrivate, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return notes, nil
}

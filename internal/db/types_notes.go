package db

import (
	"time"

	"github.com/google/uuid"
)

// Note is a comment left on an application by a team member
type Note struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"applicationId"`
	AuthorID      uuid.UUID `json:"authorId"`
	AuthorName    string    `json:"authorName,omitempty"`
	Content       string    `json:"content"`
	IsPrivate     bool      `json:"isPrivate"`
	CreatedAt     time.Time `json:"createdAt"`
}

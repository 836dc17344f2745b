package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/types"
)

// Activity is an immutable audit-log entry describing a user action
type Activity struct {
	ID     int64     `json:"id" db:"id"`
	UserID uuid.UUID `json:"userId" db:"user_id"`
	Action string    `json:"action" db:"action"`
	types.EntityRef
	Metadata  Metadata  `json:"metadata" db:"metadata"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ActivityDetail is an activity joined with the acting user's name. The
// name is empty when the user has since been deleted.
type ActivityDetail struct {
	Activity
	UserName string `json:"userName" db:"user_name"`
}

// Metadata is the open key-value bag stored in the JSONB metadata column
type Metadata map[string]any

// Scan implements the Scanner interface for Metadata
func (m *Metadata) Scan(src any) error {
	if src == nil {
		*m = Metadata{}
		return nil
	}
	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return errors.New("type assertion .([]byte) failed")
	}
	return json.Unmarshal(source, m)
}

// Value implements the Valuer interface for Metadata
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

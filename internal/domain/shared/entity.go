package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and audit timestamps of a persisted record.
// Timestamps are owned by the storage layer; callers only read them.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps a fresh identity at the current UTC time
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// EnsureID assigns an identity to a record that has none yet and reports
// whether it did
func (e *BaseEntity) EnsureID() bool {
	if e.ID != uuid.Nil {
		return false
	}
	e.ID = uuid.New()
	return true
}

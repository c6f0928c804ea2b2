package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one turn of a session. Immutable once created;
// ordering within a session follows CreatedAt insertion order.
type ChatMessage struct {
	Id            uuid.UUID
	Chat          string
	Role          string
	ChatSessionId uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}

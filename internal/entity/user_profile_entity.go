package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile holds inferred user characteristics shared across all of a
// user's sessions. Tag slices behave as sets: merged by union, exact-string
// dedup. PreferredResponseStyle is last-write-wins.
type UserProfile struct {
	Id                     uuid.UUID
	UserId                 uuid.UUID
	Interests              []string
	PersonalityTraits      []string
	PreferredResponseStyle string
	CommunicationPatterns  []string
	CreatedAt              time.Time
	UpdatedAt              *time.Time
}

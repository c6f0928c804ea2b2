package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserProfile stores the tag sets as JSON arrays. The row is upserted, never
// soft-deleted: an explicit reset writes back empty sets.
type UserProfile struct {
	Id                     uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId                 uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	Interests              datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	PersonalityTraits      datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	PreferredResponseStyle string         `gorm:"type:text;default:''"`
	CommunicationPatterns  datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	CreatedAt              time.Time      `gorm:"autoCreateTime"`
	UpdatedAt              time.Time      `gorm:"autoUpdateTime"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

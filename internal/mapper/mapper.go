package mapper

import (
	"time"

	"gorm.io/gorm"
)

// Soft-delete and timestamp conversions shared by all mappers. Entities
// carry *time.Time plus an IsDeleted flag; models carry gorm.DeletedAt and
// zero-value timestamps.

func timestampToEntity(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timestampToModel(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func deletionToEntity(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func deletionToModel(deletedAt *time.Time, isDeleted bool) gorm.DeletedAt {
	if deletedAt != nil {
		return gorm.DeletedAt{Time: *deletedAt, Valid: true}
	}
	if isDeleted {
		return gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return gorm.DeletedAt{}
}

package implementation

import (
	"docassist-be/internal/repository/specification"

	"gorm.io/gorm"
)

// applySpecs chains query specifications onto a statement. Shared by every
// repository so specs compose the same way everywhere.
func applySpecs(db *gorm.DB, specs []specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

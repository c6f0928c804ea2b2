package contract

import (
	"context"

	"docassist-be/internal/entity"
	"docassist-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserProfileRepository interface {
	Create(ctx context.Context, profile *entity.UserProfile) error
	Update(ctx context.Context, profile *entity.UserProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserId(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserProfile, error)
}

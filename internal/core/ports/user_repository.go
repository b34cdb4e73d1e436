package ports

import (
	"context"

	"github.com/talentlink/identity-api/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	AddToRole(ctx context.Context, id, role string) error
	SetAvatarPath(ctx context.Context, id, path string) error
}

// RoleRepository manages the seeded role set.
type RoleRepository interface {
	Seed(ctx context.Context, names []string) error
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]string, error)
}

package ports

import (
	"context"

	"github.com/userhub/user-management-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts and the
// role records they reference.
//
// All lookups exclude soft-deleted rows unless stated otherwise. Deletion is
// always soft (the row keeps existing and can be restored); hard deletes are
// never performed.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns all non-deleted users, excluding those whose role matches
	// excludeRole (pass "" for no exclusion).
	List(ctx context.Context, excludeRole string) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error
	SoftDelete(ctx context.Context, id string) error
	// Restore clears the soft-delete marker on a deleted row.
	Restore(ctx context.Context, id string) error

	// FindRoleByName resolves a role record by its name. The records are
	// seeded at startup; a miss is a deployment fault, not user error.
	FindRoleByName(ctx context.Context, name string) (*domain.Role, error)
}

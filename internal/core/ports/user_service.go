package ports

import (
	"context"

	"github.com/userhub/user-management-api/internal/core/domain"
)

// CreateUserInput carries the data needed to create an account. The role is
// never part of the input: each create operation fixes it server-side.
type CreateUserInput struct {
	Name        string
	Email       string
	Password    string
	Description string
}

// UpdateUserInput carries the profile fields a user may change. Nil means
// "leave unchanged". The password is absent: it cannot be updated through
// this path.
type UpdateUserInput struct {
	Name        *string
	Email       *string
	Description *string
}

// UserService defines use-case operations on user accounts. Ownership and
// role gating happen at the transport layer; ChangeStatus additionally
// rechecks the acting admin against the store.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	CreateAdmin(ctx context.Context, input CreateUserInput) (*domain.User, error)
	// List returns all non-deleted accounts, admins excluded.
	List(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	// ChangeStatus re-verifies against the store that actingAdminID resolves
	// to an admin account before touching the target; a token role claim
	// alone is not trusted here.
	ChangeStatus(ctx context.Context, targetID string, status domain.UserStatus, actingAdminID string) error
	Remove(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

package ports

import (
	"context"

	"github.com/userhub/user-management-api/internal/core/domain"
)

// AuthService implements the login flow: credential check, status check,
// token issuance.
type AuthService interface {
	// Login returns a signed token and the authenticated user. Unknown email
	// and wrong password both fail with domain.ErrInvalidCredentials; correct
	// credentials on a disabled account fail with domain.ErrUserInactive.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/userhub/user-management-api/internal/core/domain"
	"github.com/userhub/user-management-api/internal/core/ports"
	"github.com/userhub/user-management-api/pkg/password"
)

// UserService implements account CRUD, soft delete/restore, and the
// status-change admin recheck.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Create registers a regular account. The role is always USER here; any role
// the client sent was discarded at the transport layer.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.create(ctx, input, domain.RoleUser)
}

// CreateAdmin provisions an account with the ADMIN role.
func (s *UserService) CreateAdmin(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.create(ctx, input, domain.RoleAdmin)
}

func (s *UserService) create(ctx context.Context, input ports.CreateUserInput, roleName string) (*domain.User, error) {
	// Roles are seeded at startup; a miss here means a broken deployment and
	// surfaces as an internal failure, never a client error.
	role, err := s.repo.FindRoleByName(ctx, roleName)
	if err != nil {
		s.logger.Error().Err(err).Str("role", roleName).Msg("role lookup failed")
		return nil, err
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Description:  input.Description,
		Role:         role.Name,
		Status:       domain.StatusActive,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Str("email", input.Email).Msg("failed to create user")
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user created")
	return created, nil
}

// List returns all non-deleted accounts, excluding admins.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx, domain.RoleAdmin)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies the profile fields present in input. It fetches the current
// row and copies only name/email/description across, so the password hash
// (and everything else) can never change through this path.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Description != nil {
		user.Description = *input.Description
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to update user")
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

// ChangeStatus flips the target's status after re-verifying, with a fresh
// store lookup, that the acting account currently holds the ADMIN role. The
// route-level gate already checked the token claim; this recheck defends
// against a stale or forged claim. The update itself is a single-row write
// with last-writer-wins semantics, and nothing stops an admin from
// deactivating themselves.
func (s *UserService) ChangeStatus(ctx context.Context, targetID string, status domain.UserStatus, actingAdminID string) error {
	acting, err := s.repo.FindByID(ctx, actingAdminID)
	if err != nil {
		return err
	}
	if acting.Role != domain.RoleAdmin {
		s.logger.Warn().
			Str("acting_id", actingAdminID).
			Str("target_id", targetID).
			Msg("status change rejected: acting account is not an admin")
		return domain.ErrForbidden
	}

	if err := s.repo.UpdateStatus(ctx, targetID, status); err != nil {
		s.logger.Error().Err(err).Str("user_id", targetID).Msg("failed to update status")
		return err
	}

	s.logger.Info().
		Str("user_id", targetID).
		Str("status", string(status)).
		Str("acting_id", actingAdminID).
		Msg("user status changed")
	return nil
}

// Remove soft-deletes the account: the row keeps existing with a deletion
// timestamp and disappears from normal lookups until restored.
func (s *UserService) Remove(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to delete user")
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user soft-deleted")
	return nil
}

// Restore clears the soft-delete marker. Tokens issued before the deletion
// remain valid until their own expiry; restoration does not touch them.
func (s *UserService) Restore(ctx context.Context, id string) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to restore user")
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user restored")
	return nil
}

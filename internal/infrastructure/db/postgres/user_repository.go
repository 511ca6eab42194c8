package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/userhub/user-management-api/internal/core/domain"
)

// userRecord is the gorm entity mapped to the users table, kept separate
// from domain.User so the schema can evolve without touching the core types.
type userRecord struct {
	ID           string     `gorm:"primaryKey;size:36"`
	Name         string     `gorm:"size:64;not null"`
	Email        string     `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `gorm:"size:100;not null"`
	Description  string     `gorm:"size:255"`
	RoleID       string     `gorm:"size:36;not null"`
	Role         roleRecord `gorm:"foreignKey:RoleID"`
	Status       string     `gorm:"size:16;not null;default:active"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (userRecord) TableName() string { return "users" }

type roleRecord struct {
	ID   string `gorm:"primaryKey;size:36"`
	Name string `gorm:"uniqueIndex;size:16;not null"`
}

func (roleRecord) TableName() string { return "roles" }

// UserRepository implements ports.UserRepository on PostgreSQL via gorm.
// Soft deletion rides on gorm.DeletedAt: deleted rows vanish from unscoped
// queries automatically and Restore clears the marker.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	var role roleRecord
	if err := r.db.WithContext(ctx).First(&role, "name = ?", user.Role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}

	rec := toRecord(user, role.ID)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return r.FindByID(ctx, rec.ID)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Preload("Role").First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomain(&rec), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Preload("Role").First(&rec, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return toDomain(&rec), nil
}

func (r *UserRepository) List(ctx context.Context, excludeRole string) ([]*domain.User, error) {
	q := r.db.WithContext(ctx).Preload("Role").Order("created_at desc")
	if excludeRole != "" {
		q = q.Where("role_id NOT IN (?)",
			r.db.Model(&roleRecord{}).Select("id").Where("name = ?", excludeRole))
	}

	var recs []userRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*domain.User, len(recs))
	for i := range recs {
		users[i] = toDomain(&recs[i])
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", user.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	rec.Name = user.Name
	rec.Email = user.Email
	rec.Description = user.Description
	if err := r.db.WithContext(ctx).Save(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return r.FindByID(ctx, user.ID)
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error {
	res := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return fmt.Errorf("update status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&userRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("soft delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Restore(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&userRecord{}).
		Where("id = ?", id).Update("deleted_at", nil)
	if res.Error != nil {
		return fmt.Errorf("restore user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	var rec roleRecord
	err := r.db.WithContext(ctx).First(&rec, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: rec.ID, Name: rec.Name}, nil
}

func toRecord(u *domain.User, roleID string) userRecord {
	return userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Description:  u.Description,
		RoleID:       roleID,
		Status:       string(u.Status),
	}
}

func toDomain(rec *userRecord) *domain.User {
	u := &domain.User{
		ID:           rec.ID,
		Name:         rec.Name,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Description:  rec.Description,
		Role:         rec.Role.Name,
		Status:       domain.UserStatus(rec.Status),
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if rec.DeletedAt.Valid {
		t := rec.DeletedAt.Time
		u.DeletedAt = &t
	}
	return u
}

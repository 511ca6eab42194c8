package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/userhub/user-management-api/internal/core/domain"
)

// Config captures the settings for establishing a PostgreSQL connection.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect opens a gorm handle against PostgreSQL and configures the
// connection pool. TranslateError is enabled so unique-constraint violations
// surface as gorm.ErrDuplicatedKey regardless of driver.
func Connect(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// Migrate creates the user and role tables and seeds the two role records.
// Roles must exist before any account can be created; seeding here makes a
// missing role strictly a deployment fault.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&roleRecord{}, &userRecord{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for _, name := range []string{domain.RoleUser, domain.RoleAdmin} {
		rec := roleRecord{ID: uuid.NewString(), Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&rec).Error; err != nil {
			return fmt.Errorf("seed role %q: %w", name, err)
		}
	}
	return nil
}

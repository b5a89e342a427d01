package database

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zaqqye/attendance_backend_v1/internal/config"
	"github.com/zaqqye/attendance_backend_v1/internal/database/migrations"
	"github.com/zaqqye/attendance_backend_v1/internal/models"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
		)
		return gorm.Open(postgres.Open(dsn), gormCfg)
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath+"?_pragma=foreign_keys(1)"), gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// SQLite serialises writers anyway
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Migrate applies the embedded goose migrations on PostgreSQL. SQLite
// databases are local throwaways and get gorm's AutoMigrate instead.
func Migrate(ctx context.Context, db *gorm.DB, driver string) error {
	if driver == "sqlite" {
		return db.WithContext(ctx).AutoMigrate(models.All()...)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

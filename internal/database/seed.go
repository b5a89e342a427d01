package database

import (
	"context"
	"errors"

	"github.com/zaqqye/attendance_backend_v1/internal/config"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
	"github.com/zaqqye/attendance_backend_v1/internal/utils"
)

// SeedAdmin creates the administrator from ADMIN_USERNAME/ADMIN_PASSWORD
// when both are set and no administrator exists yet.
func SeedAdmin(ctx context.Context, admins store.Admins, cfg *config.Config, log logging.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	hashed, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := models.Admin{Username: cfg.AdminUsername, Password: hashed}
	if err := admins.CreateAdmin(ctx, &admin); err != nil {
		if errors.Is(err, store.ErrConflict) {
			log.Debug(ctx, "admin already present, seed skipped")
			return nil
		}
		return err
	}
	log.Info(ctx, "seeded initial admin", "username", admin.Username)
	return nil
}

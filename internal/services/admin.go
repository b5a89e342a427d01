package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/zaqqye/attendance_backend_v1/internal/auth"
	"github.com/zaqqye/attendance_backend_v1/internal/cache"
	"github.com/zaqqye/attendance_backend_v1/internal/common"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/metrics"
	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
	"github.com/zaqqye/attendance_backend_v1/internal/utils"
	"github.com/zaqqye/attendance_backend_v1/internal/validation"
)

const invalidCredentials = "Invalid username or password"

// Session is what a successful login or refresh hands back to the client.
type Session struct {
	Admin  models.AdminView
	Tokens auth.TokenPair
}

type AdminService struct {
	store     store.Admins
	tokens    *auth.Issuer
	blacklist *cache.Blacklist
	log       logging.Logger
}

func NewAdminService(st store.Admins, tokens *auth.Issuer, blacklist *cache.Blacklist, log logging.Logger) *AdminService {
	return &AdminService{store: st, tokens: tokens, blacklist: blacklist, log: log.With("service", "admin")}
}

func (s *AdminService) Register(ctx context.Context, username, password string) (models.AdminView, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.AdminView{}, common.BadRequest("Username and password are required")
	}
	if problem := validation.PasswordProblem(password); problem != "" {
		return models.AdminView{}, common.BadRequest(problem)
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return models.AdminView{}, common.Internal("failed to hash password", err)
	}
	admin := models.Admin{Username: username, Password: hashed}
	if err := s.store.CreateAdmin(ctx, &admin); err != nil {
		return models.AdminView{}, fromStore(err, "", "An admin already exists")
	}
	s.log.Info(ctx, "admin registered", "admin_id", admin.ID)
	return admin.View(), nil
}

func (s *AdminService) Login(ctx context.Context, username, password string) (*Session, error) {
	admin, err := s.store.GetAdminByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		metrics.Logins.WithLabelValues("rejected").Inc()
		return nil, common.Unauthorized(invalidCredentials)
	}
	if err != nil {
		return nil, common.Internal("database error", err)
	}
	if !utils.CheckPassword(admin.Password, password) {
		metrics.Logins.WithLabelValues("rejected").Inc()
		s.log.Warn(ctx, "admin login rejected", "admin_id", admin.ID)
		return nil, common.Unauthorized(invalidCredentials)
	}
	metrics.Logins.WithLabelValues("accepted").Inc()
	return s.startSession(ctx, admin)
}

// startSession issues a token pair and keeps only the new refresh token
// valid.
func (s *AdminService) startSession(ctx context.Context, admin *models.Admin) (*Session, error) {
	pair, err := s.tokens.IssueTokens(admin.ID, admin.Username)
	if err != nil {
		return nil, common.Internal("Error generating tokens", err)
	}
	if err := s.store.SetRefreshToken(ctx, admin.ID, utils.SHA256Hex(pair.RefreshToken)); err != nil {
		return nil, fromStore(err, "Admin not found", "")
	}
	return &Session{Admin: admin.View(), Tokens: pair}, nil
}

// Refresh rotates both tokens. Only the most recently issued refresh
// token is accepted.
func (s *AdminService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, common.Unauthorized("Refresh token is required")
	}
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, common.Unauthorized("Invalid refresh token")
	}
	admin, err := s.store.GetAdminByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return nil, common.Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return nil, common.Internal("database error", err)
	}
	digest := utils.SHA256Hex(refreshToken)
	if admin.RefreshToken == "" || subtle.ConstantTimeCompare([]byte(admin.RefreshToken), []byte(digest)) != 1 {
		return nil, common.Unauthorized("Refresh token is expired or used")
	}
	return s.startSession(ctx, admin)
}

// Logout forgets the refresh token and revokes the presented access token.
func (s *AdminService) Logout(ctx context.Context, adminID, accessJTI string, accessExpiresAt time.Time) error {
	if err := s.store.SetRefreshToken(ctx, adminID, ""); err != nil {
		return fromStore(err, "Admin not found", "")
	}
	if accessJTI != "" {
		if err := s.blacklist.Revoke(ctx, accessJTI, accessExpiresAt); err != nil {
			return common.Internal("failed to revoke token", err)
		}
	}
	s.log.Info(ctx, "admin logged out", "admin_id", adminID)
	return nil
}

func (s *AdminService) ChangePassword(ctx context.Context, adminID, oldPassword, newPassword, confirmPassword string) error {
	if oldPassword == "" || newPassword == "" || confirmPassword == "" {
		return common.BadRequest("Old password, new password and confirm password are required")
	}
	if newPassword != confirmPassword {
		return common.BadRequest("New password and confirm password do not match")
	}
	if newPassword == oldPassword {
		return common.BadRequest("New password must be different from the old password")
	}
	if problem := validation.PasswordProblem(newPassword); problem != "" {
		return common.BadRequest(problem)
	}
	admin, err := s.store.GetAdminByID(ctx, adminID)
	if err != nil {
		return fromStore(err, "Admin not found", "")
	}
	if !utils.CheckPassword(admin.Password, oldPassword) {
		return common.Unauthorized("Old password is incorrect")
	}
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return common.Internal("failed to hash password", err)
	}
	if err := s.store.UpdatePassword(ctx, adminID, hashed); err != nil {
		return fromStore(err, "Admin not found", "")
	}
	// every device has to log in again
	if err := s.store.SetRefreshToken(ctx, adminID, ""); err != nil {
		return fromStore(err, "Admin not found", "")
	}
	s.log.Info(ctx, "admin password changed", "admin_id", adminID)
	return nil
}

func (s *AdminService) Current(ctx context.Context, adminID string) (models.AdminView, error) {
	admin, err := s.store.GetAdminByID(ctx, adminID)
	if errors.Is(err, store.ErrNotFound) {
		return models.AdminView{}, common.Unauthorized("Admin not found")
	}
	if err != nil {
		return models.AdminView{}, common.Internal("database error", err)
	}
	return admin.View(), nil
}

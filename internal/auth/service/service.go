package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"retiros_backend/internal/auth/password"
	"retiros_backend/internal/auth/repository"
	"retiros_backend/internal/auth/transport"
	"retiros_backend/platform/apperr"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/config"
	"retiros_backend/platform/logger"
)

// Service provides the single-admin authentication logic.
type Service struct {
	repo repository.Repository
	cfg  config.AuthConfig
	clk  clock.Clock
	log  *logger.Logger
}

// New creates a new auth service.
func New(repo repository.Repository, cfg config.AuthConfig, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, clk: clk, log: log}
}

// Setup creates the admin account. This deployment model expects exactly one
// admin, so the endpoint refuses once any user exists.
func (s *Service) Setup(ctx context.Context, req transport.SetupRequest) (transport.UserResponse, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return transport.UserResponse{}, err
	}
	if count > 0 {
		return transport.UserResponse{}, apperr.Conflict("setup has already been completed")
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, err
	}

	user, err := s.repo.Create(ctx, repository.CreateParams{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
	})
	if err != nil {
		return transport.UserResponse{}, err
	}

	s.log.Info("admin account created", "email", user.Email)
	return toResponse(user), nil
}

// Login verifies credentials, stamps lastLogin, and issues a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.SessionResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return transport.SessionResponse{}, apperr.Unauthorized("invalid credentials")
		}
		return transport.SessionResponse{}, err
	}
	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		return transport.SessionResponse{}, apperr.Unauthorized("invalid credentials")
	}

	now := s.clk.Now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return transport.SessionResponse{}, err
	}
	user.LastLogin = &now

	return s.session(user, now)
}

// Me returns the authenticated admin's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toResponse(user), nil
}

// ChangePassword rotates the password after verifying the current one and
// re-issues the session token.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req transport.ChangePasswordRequest) (transport.SessionResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	if err := password.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		return transport.SessionResponse{}, apperr.Unauthorized("current password is incorrect")
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return transport.SessionResponse{}, err
	}

	now := s.clk.Now()
	if err := s.repo.UpdatePassword(ctx, user.ID, hash, now); err != nil {
		return transport.SessionResponse{}, err
	}
	user.PasswordChangedAt = &now

	return s.session(user, now)
}

// SessionTTL exposes the configured session lifetime for cookie expiry.
func (s *Service) SessionTTL() time.Duration {
	return s.cfg.GetSessionTTL()
}

func (s *Service) session(user repository.User, now time.Time) (transport.SessionResponse, error) {
	expiresAt := now.Add(s.cfg.GetSessionTTL())
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTSecret()))
	if err != nil {
		return transport.SessionResponse{}, err
	}

	return transport.SessionResponse{
		User:      toResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func toResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}
}

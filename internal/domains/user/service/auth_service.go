package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domains/user/model"
	"library-backend/internal/domains/user/repository"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/metrics"
	"library-backend/pkg/cache"
)

const failedLoginPrefix = "login:fail:"

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateAccessToken(userID, email, role string) (string, time.Time, error)
}

// Service - authentication use cases
type Service interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Me(ctx context.Context, userID string) (*model.UserDTO, error)
	CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.UserDTO, error)
}

// Throttle limits failed logins per email. Zero MaxFailures disables it.
type Throttle struct {
	MaxFailures int
	Window      time.Duration
}

type authService struct {
	repo     repository.Repository
	tokens   TokenIssuer
	cache    cache.Cache
	throttle Throttle
}

// NewAuthService - cache may be nil, which disables throttling
func NewAuthService(repo repository.Repository, tokens TokenIssuer, cache cache.Cache, throttle Throttle) Service {
	return &authService{repo: repo, tokens: tokens, cache: cache, throttle: throttle}
}

// HashPassword hashes with bcrypt's default cost
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *authService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	if s.locked(ctx, req.Email) {
		metrics.LoginAttempts.WithLabelValues("throttled").Inc()
		return nil, model.ErrTooManyAttempts
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.recordFailure(ctx, req.Email)
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, req.Email)
		return nil, model.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(u.ID.String(), u.Email, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.clearFailures(ctx, req.Email)
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	log.Info().Str("user_id", u.ID.String()).Str("role", string(u.Role)).Msg("[AuthService] Login succeeded")

	return &model.LoginResponse{User: u.ToDTO(), Token: token, ExpiresAt: expiresAt}, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*model.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *authService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.UserDTO, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{Name: req.Name, Email: req.Email, PasswordHash: hash, Role: req.Role}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

// ---- throttling; cache errors never block a login ----

func (s *authService) enabled() bool {
	return s.cache != nil && s.throttle.MaxFailures > 0
}

func (s *authService) locked(ctx context.Context, email string) bool {
	if !s.enabled() {
		return false
	}
	var count int64
	found, err := s.cache.Get(ctx, failedLoginPrefix+email, &count)
	if err != nil {
		log.Warn().Err(err).Msg("[AuthService] Throttle lookup failed")
		return false
	}
	return found && count >= int64(s.throttle.MaxFailures)
}

func (s *authService) recordFailure(ctx context.Context, email string) {
	metrics.LoginAttempts.WithLabelValues("invalid").Inc()
	if !s.enabled() {
		return
	}
	key := failedLoginPrefix + email
	n, err := s.cache.Increment(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("[AuthService] Throttle increment failed")
		return
	}
	if n == 1 {
		if err := s.cache.Expire(ctx, key, s.throttle.Window); err != nil {
			log.Warn().Err(err).Msg("[AuthService] Throttle expire failed")
		}
	}
	if n == int64(s.throttle.MaxFailures) {
		log.Warn().Str("email", email).Int64("failures", n).Msg("[AuthService] Login locked")
	}
}

func (s *authService) clearFailures(ctx context.Context, email string) {
	if !s.enabled() {
		return
	}
	if err := s.cache.Delete(ctx, failedLoginPrefix+email); err != nil {
		log.Warn().Err(err).Msg("[AuthService] Throttle reset failed")
	}
}

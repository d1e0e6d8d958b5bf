package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
	"voltstore/pkg/logger"
)

// Service provides login and user provisioning.
type Service struct {
	repo Repository
	jwt  *JWTService
}

// NewService creates an auth service.
func NewService(repo Repository, jwtSvc *JWTService) *Service {
	return &Service{repo: repo, jwt: jwtSvc}
}

// LoginResult carries the issued token.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// Login verifies credentials and issues an access token.
// The same error is returned for unknown email and wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperror.NewUnauthorized("account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.repo.UpdateLastLogin(ctx, user); err != nil {
		logger.Warn(ctx, "last login update failed", "user_id", user.ID, "error", err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "email", user.Email)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// CreateUser provisions a new account with a bcrypt password hash.
func (s *Service) CreateUser(ctx context.Context, email, password, name, role string) (*User, error) {
	if email == "" || password == "" {
		return nil, apperror.NewValidation("email and password are required")
	}
	if len(password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperror.NewDuplicate("user", "email", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	now := time.Now()
	user := &User{
		ID:           id.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user created", "user_id", user.ID, "email", user.Email, "role", user.Role)
	return user, nil
}

// GetByID returns one user.
func (s *Service) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/internal/store"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

// AuthService handles account registration and credential checks. The
// verified {userId, role} pair the core trusts comes from tokens
// minted after these checks.
type AuthService struct {
	users store.UserStore
	now   func() time.Time
	newID func() string
}

func NewAuthService(users store.UserStore) *AuthService {
	return &AuthService{
		users: users,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Register creates an account. Email uniqueness is enforced by the
// store; duplicates surface as Conflict.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}

	now := s.now()
	user := &model.User{
		ID:           s.newID(),
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         req.Role,
		Profile:      req.Profile,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials. Callers should collapse any failure into
// one generic unauthorized response.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Forbidden("invalid credentials")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("account is deactivated")
	}
	return user, nil
}

// GetByID loads one account.
func (s *AuthService) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"verifyzen/internal/shared/auth"
	"verifyzen/internal/shared/telemetry"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Register creates a recruiter account and returns a signed token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	if s == nil || s.Repo == nil {
		return AuthResponse{}, errors.New("users service not configured")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Company:      strings.TrimSpace(req.Company),
		Role:         RoleRecruiter,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return AuthResponse{}, err
	}

	created, err := s.Repo.GetByID(ctx, user.ID)
	if err != nil {
		created = user
	}

	token, err := auth.IssueToken(created.ID, created.Email, created.Role)
	if err != nil {
		return AuthResponse{}, err
	}

	telemetry.Info("users.registered", map[string]any{"user_id": created.ID})
	return AuthResponse{Token: token, User: created}, nil
}

// Login verifies credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	if s == nil || s.Repo == nil {
		return AuthResponse{}, errors.New("users service not configured")
	}

	user, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthResponse{}, ErrInvalidCredentials
		}
		return AuthResponse{}, err
	}
	if user.PasswordHash == "" {
		// OAuth-only account, no password set.
		return AuthResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return AuthResponse{}, ErrInvalidCredentials
	}

	if err := s.Repo.UpdateLastLogin(ctx, user.ID); err != nil {
		telemetry.Error("users.last_login_update_failed", map[string]any{"user_id": user.ID, "error": err.Error()})
	} else if refreshed, err := s.Repo.GetByID(ctx, user.ID); err == nil {
		user = refreshed
	}

	token, err := auth.IssueToken(user.ID, user.Email, user.Role)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{Token: token, User: user}, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpsertFromOAuth persists an externally authenticated identity and returns
// the stored account, creating a recruiter account on first login.
func (s *Service) UpsertFromOAuth(ctx context.Context, email, firstName, lastName string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return User{}, errors.New("email is required")
	}
	return s.Repo.Upsert(ctx, User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Role:      RoleRecruiter,
	})
}

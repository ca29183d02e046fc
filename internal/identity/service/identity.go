package service

import (
	"context"
	"errors"
	"strings"
	"time"

	identityerrors "festas/internal/identity/errors"
	"festas/internal/identity/repository"
	"festas/pkg/config"
	apperrors "festas/pkg/errors"
	"festas/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// IdentityService is the in-repo stand-in for the external identity
// collaborator: credential verification, session issue/revoke, and
// current-user lookup.
type IdentityService interface {
	SignIn(ctx context.Context, email, password string) (*model.Session, *model.User, error)
	SignOut(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*model.User, error)
	// Provision creates an account. There is no self-service registration;
	// the administrator runs the useradd job for each resident.
	Provision(ctx context.Context, email, password, displayName string) (*model.User, error)
}

type identityService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	cfg      *config.Config
}

func NewIdentityService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	cfg *config.Config,
) IdentityService {
	return &identityService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
	}
}

func (s *identityService) SignIn(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	if email == "" || password == "" {
		return nil, nil, apperrors.InvalidInput("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, identityerrors.ErrUserNotFound) {
			// Same message as a wrong password: do not reveal which one failed.
			return nil, nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, nil, apperrors.Internal("Failed to verify credentials", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.cfg.Log.Warn("Sign-in rejected", "email", email)
		return nil, nil, apperrors.Unauthorized("Invalid email or password")
	}

	session := &model.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, apperrors.Internal("Failed to create session", err)
	}

	s.cfg.Log.Info("User signed in", "user_id", user.ID)
	return session, user, nil
}

func (s *identityService) Provision(ctx context.Context, email, password, displayName string) (*model.User, error) {
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.InvalidInput("A valid email is required")
	}
	if len(password) < 8 {
		return nil, apperrors.InvalidInput("Password must be at least 8 characters")
	}
	if len(displayName) < 2 {
		return nil, apperrors.InvalidInput("Display name must be at least 2 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.Conflict("A user with this email already exists")
		}
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User provisioned", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *identityService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return apperrors.Internal("Failed to end session", err)
	}
	return nil
}

func (s *identityService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("Missing session token")
	}

	session, err := s.sessions.Find(ctx, token)
	if err != nil {
		if errors.Is(err, identityerrors.ErrSessionNotFound) {
			return nil, apperrors.Unauthorized("Invalid or expired session")
		}
		return nil, apperrors.Internal("Failed to look up session", err)
	}

	if session.Expired(time.Now().UTC()) {
		// Lazy expiry: drop the stale record on first use after the deadline.
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.cfg.Log.Warn("Failed to remove expired session", "error", err)
		}
		return nil, apperrors.Unauthorized("Invalid or expired session")
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, identityerrors.ErrUserNotFound) {
			return nil, apperrors.Unauthorized("Invalid or expired session")
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}
	return user, nil
}

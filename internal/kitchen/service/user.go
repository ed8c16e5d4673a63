package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/token"
	"github.com/onkyoh/paper-kitchen-api/pkg/cryptox"
	"github.com/onkyoh/paper-kitchen-api/pkg/idx"
	"github.com/onkyoh/paper-kitchen-api/pkg/slogx"
)

// UserService handles registration, login and profile lookups.
type UserService struct {
	Store     store.Store
	Codec     *token.Codec
	AccessTTL time.Duration
}

// Session is what a successful register or login hands back to the client.
type Session struct {
	User  domain.User
	Token string
}

func (s *UserService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return token.DefaultAccessTTL
}

// Register creates the account and signs the caller straight in.
func (s *UserService) Register(ctx context.Context, name, username, password string) (Session, error) {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return Session{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index on username is authoritative; a pre-check would just
	// add a race window.
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return Session{}, ErrUsernameTaken
		}
		return Session{}, err
	}

	signed, err := s.Codec.MintAccess(user.ID, user.Name, s.accessTTL())
	if err != nil {
		return Session{}, err
	}

	log.Info("user registered", slog.String("user_id", user.ID))

	return Session{User: user, Token: signed}, nil
}

// Login verifies credentials and mints a fresh access token. Unknown
// username and wrong password are deliberately the same error.
func (s *UserService) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	signed, err := s.Codec.MintAccess(user.ID, user.Name, s.accessTTL())
	if err != nil {
		return Session{}, err
	}

	return Session{User: user, Token: signed}, nil
}

// GetProfile returns the stored user for an authenticated caller.
func (s *UserService) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

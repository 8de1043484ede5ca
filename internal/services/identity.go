// Package services contains business logic layers.
// Services are called by handlers and the CLI and persist through a storage.Store.
package services

import (
	"context"
	"sync"

	"github.com/fixmyward/ward-server/internal/models"
	"github.com/fixmyward/ward-server/internal/storage"
	"go.uber.org/zap"
)

// IdentityService registers and authenticates users against the users
// collection. Passwords are compared as plain text.
type IdentityService struct {
	store  storage.Store
	logger *zap.SugaredLogger
	mu     sync.Mutex
}

// NewIdentityService creates a new identity service
func NewIdentityService(store storage.Store, logger *zap.SugaredLogger) *IdentityService {
	return &IdentityService{store: store, logger: logger}
}

// Users returns the full user collection.
func (s *IdentityService) Users(ctx context.Context) ([]models.User, error) {
	return storage.LoadCollection[models.User](ctx, s.store, storage.UsersKey, s.logger)
}

// FindByUsername returns the user with exactly this username.
func (s *IdentityService) FindByUsername(ctx context.Context, username string) (models.User, bool, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return models.User{}, false, err
	}
	for _, u := range users {
		if u.Username == username {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

// Register appends candidate to the user collection unless its username is
// already taken. The candidate is returned unchanged.
func (s *IdentityService) Register(ctx context.Context, candidate models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.Users(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Username == candidate.Username {
			return models.User{}, ErrUsernameTaken
		}
	}

	users = append(users, candidate)
	if err := storage.SaveCollection(ctx, s.store, storage.UsersKey, users); err != nil {
		return models.User{}, err
	}

	s.logger.Infow("User registered",
		"id", candidate.ID,
		"role", candidate.Role,
		"ward", candidate.Ward,
	)
	return candidate, nil
}

// Authenticate checks, in order, that the username exists, the password
// matches and the stored role is the claimed one. The returned user has no
// password and is what gets cached as the session.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string, claimed models.Role) (models.User, error) {
	user, ok, err := s.FindByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	if user.Password != password {
		return models.User{}, ErrBadCredentials
	}
	if user.Role != claimed {
		return models.User{}, &RoleMismatchError{Actual: user.Role}
	}
	return user.Stripped(), nil
}

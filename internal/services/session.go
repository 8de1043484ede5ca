package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fixmyward/ward-server/internal/models"
	"github.com/fixmyward/ward-server/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// SessionStore persists the single active session under storage.SessionKey.
type SessionStore struct {
	store  storage.Store
	logger *zap.SugaredLogger
}

// NewSessionStore creates a session store on top of store
func NewSessionStore(store storage.Store, logger *zap.SugaredLogger) *SessionStore {
	return &SessionStore{store: store, logger: logger}
}

// Save replaces the active session with user, password removed.
func (s *SessionStore) Save(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user.Stripped())
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Put(ctx, storage.SessionKey, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Restore returns the persisted session, if any. A blob that does not
// parse counts as no session.
func (s *SessionStore) Restore(ctx context.Context) (models.User, bool, error) {
	raw, err := s.store.Get(ctx, storage.SessionKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("restore session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
		s.logger.Warnw("Ignoring unreadable session", "error", err)
		return models.User{}, false, nil
	}
	return user, true, nil
}

// Clear ends the active session.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, storage.SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

type ctxKey struct{}

// WithUser returns a context carrying the session user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user.Stripped())
}

// UserFromContext returns the session user placed by WithUser.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(models.User)
	return user, ok
}

// SessionClaims is the session user as carried in a bearer token.
type SessionClaims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	Ward     string      `json:"ward,omitempty"`
	FullName string      `json:"fullName"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens. A token is only a
// presence marker for the stripped user; there is no server-side session.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a token issuer
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for user.
func (t *TokenIssuer) Issue(user models.User) (string, error) {
	now := t.now()
	claims := SessionClaims{
		Username: user.Username,
		Role:     user.Role,
		Ward:     user.Ward,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the session user it carries.
func (t *TokenIssuer) Verify(tokenStr string) (models.User, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return models.User{}, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return models.User{}, errors.New("invalid token: missing subject")
	}
	return models.User{
		ID:       claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
		Ward:     claims.Ward,
		FullName: claims.FullName,
	}, nil
}

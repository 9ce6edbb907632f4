// Package auth binds browser sessions to users.
//
// A session is an HS256-signed JWT carried in an HttpOnly cookie. The token
// holds only the user id; the user is reloaded from the credential store on
// every request, so renamed or missing users are picked up immediately.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"goalgrid/internal/models"
	"goalgrid/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrUsernameNotFound = errors.New("username not found")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrUnauthorized     = errors.New("unauthorized")
)

// Credentials is the subset of the credential store sessions depend on.
type Credentials interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

type Sessions struct {
	users Credentials
	key   []byte
	ttl   time.Duration
	now   func() time.Time
}

func NewSessions(users Credentials, key string, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{users: users, key: []byte(key), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source used for issuing and validating tokens.
func (s *Sessions) WithClock(now func() time.Time) *Sessions {
	s.now = now
	return s
}

func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Login checks the credentials and returns a signed session token.
// Unknown usernames and wrong passwords fail with distinct errors.
func (s *Sessions) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, ErrUsernameNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !s.users.VerifyPassword(user, password) {
		return "", nil, ErrWrongPassword
	}

	token, err := s.Issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Issue signs a session token for user.
func (s *Sessions) Issue(user *models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl))})

	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}

	return tokenString, nil
}

// Resolve maps a session token back to its user. Every failure, including
// a valid token for a user that no longer exists, is ErrUnauthorized.
func (s *Sessions) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("find session user: %w", err)
	}

	return user, nil
}

package auth

import (
	"context"
	"fmt"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator holds methods to deal with the authentication and session
// lifecycle. Lookups that legitimately resolve to nothing (ValidLogin,
// GetUserBySession) report absence as a value; operations whose precondition
// is an existing record fail with a named error.
type Authenticator interface {
	RegisterUser(ctx context.Context, email, password string) (*User, error)
	ValidLogin(ctx context.Context, email, password string) (bool, error)
	CreateSession(ctx context.Context, email string) (string, error)
	GetUserBySession(ctx context.Context, token string) (*User, error)
	DestroySession(ctx context.Context, userID uuid.UUID) error
	GetResetToken(ctx context.Context, email string) (string, error)
	UpdatePassword(ctx context.Context, token, newPassword string) error
}

// AccountRegistrerer is the interface we need to handle new user registrations
type AccountRegistrerer interface {
	RegisterUser(ctx context.Context, email, password string) (*User, error)
}

type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
	GetExtendedSession() bool
}

type Middleware interface {
	ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc
}

// HTTPAuthenticator binds the session lifecycle to an HTTP transport: it
// carries the opaque token in a cookie and guards routes that need a user.
type HTTPAuthenticator interface {
	Middleware
	Login(c router.Context, payload LoginPayload) error
	Logout(c router.Context) error
	CurrentUser(c router.Context) (*User, error)
}

// Config holds auth options
type Config interface {
	GetSessionCookieName() string
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
	GetCookieDuration() int
	GetExtendedCookieDuration() int
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

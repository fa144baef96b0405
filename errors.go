package auth

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced to API clients so they can branch on cause without
// parsing messages.
const (
	TextCodeDuplicateEmail    = "DUPLICATE_EMAIL"
	TextCodeUserNotFound      = "USER_NOT_FOUND"
	TextCodeInvalidResetToken = "INVALID_RESET_TOKEN"
	TextCodeSessionNotFound   = "SESSION_NOT_FOUND"
	TextCodeInvalidCreds      = "INVALID_CREDENTIALS"
)

// ErrDuplicateEmail is returned when registration is attempted for an email
// already on file.
var ErrDuplicateEmail = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(goerrors.CodeConflict)

// ErrUserNotFound is returned by operations whose precondition is an existing
// user (reset token issuance).
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrInvalidResetToken is returned when a password update presents a token
// that resolves to no user: never issued, already consumed, or mistyped.
var ErrInvalidResetToken = goerrors.New("invalid or already used reset token", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidResetToken).
	WithCode(goerrors.CodeBadRequest)

// ErrSessionNotFound is the transport-level error for a session token that
// resolves to no user. GetUserBySession itself returns an empty result; the
// HTTP layer converts that absence into this error.
var ErrSessionNotFound = goerrors.New("session not found", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(goerrors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is returned when a password does not verify
// against the stored hash.
var ErrMismatchedHashAndPassword = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// IsDuplicateEmail will check for registration conflicts.
func IsDuplicateEmail(err error) bool {
	return hasTextCode(err, TextCodeDuplicateEmail)
}

// IsUserNotFound will check for missing-user rejections.
func IsUserNotFound(err error) bool {
	return hasTextCode(err, TextCodeUserNotFound)
}

// IsInvalidResetToken will check for rejected reset tokens.
func IsInvalidResetToken(err error) bool {
	return hasTextCode(err, TextCodeInvalidResetToken)
}

// IsSessionNotFound will check for unresolved session tokens.
func IsSessionNotFound(err error) bool {
	return hasTextCode(err, TextCodeSessionNotFound)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}

// IsUniqueViolation will check for store-level unique constraint rejections.
// The store enforces email/token uniqueness authoritatively, so concurrent
// writers lose with either the repository's typed duplicate error or a raw
// driver error we match by message (sqlite and postgres).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	// walk the chain: the repository layer wraps driver errors with a
	// generic outer message, so the typed duplicate marker or the driver
	// text may only show up on inner errors
	for e := err; e != nil; e = errors.Unwrap(e) {
		if richErr, ok := e.(*goerrors.Error); ok {
			if richErr.TextCode == "DUPLICATE_KEY" ||
				richErr.Category == goerrors.Category("database_duplicate") {
				return true
			}
		}

		msg := e.Error()
		if strings.Contains(msg, "UNIQUE constraint failed") ||
			strings.Contains(msg, "constraint failed: UNIQUE") ||
			strings.Contains(msg, "duplicate key value violates unique constraint") {
			return true
		}
	}

	return false
}

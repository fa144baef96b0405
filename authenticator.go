package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Auther orchestrates registration, login, session lifecycle, and
// password reset using an injected store, hasher, and token generator.
type Auther struct {
	repo             RepositoryManager
	hasher           PasswordAuthenticator
	tokens           TokenGenerator
	logger           Logger
	activitySink     ActivitySink
	deterministicIDs bool
}

var _ Authenticator = (*Auther)(nil)
var _ AccountRegistrerer = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator backed by the given repositories.
func NewAuthenticator(repo RepositoryManager) *Auther {
	return &Auther{
		repo:         repo,
		hasher:       NewPasswordAuthenticator(),
		tokens:       NewTokenGenerator(),
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenGenerator overrides the source of session and reset tokens.
func (s *Auther) WithTokenGenerator(tokens TokenGenerator) *Auther {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// WithPasswordAuthenticator overrides the password hasher.
func (s *Auther) WithPasswordAuthenticator(hasher PasswordAuthenticator) *Auther {
	if hasher != nil {
		s.hasher = hasher
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithDeterministicIDs derives user IDs from the email via hashid instead of
// letting the store assign random UUIDs. Useful for fixture-heavy setups.
func (s *Auther) WithDeterministicIDs(enabled bool) *Auther {
	s.deterministicIDs = enabled
	return s
}

// RegisterUser creates a user with a hashed password and no session or reset
// token. The email existence check runs in the same transaction as the
// insert, but the unique index is the authority: a concurrent registration
// for the same email loses at the store and surfaces as ErrDuplicateEmail.
func (s *Auther) RegisterUser(ctx context.Context, email, password string) (*User, error) {
	user := &User{Email: email}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}
	user.PasswordHash = hash

	if s.deterministicIDs {
		if id, err := hashid.NewUUID(email); err == nil {
			user.ID = id
		}
	}

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.Users().FindByEmailTx(ctx, tx, email); err == nil {
			return ErrDuplicateEmail
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing user")
		}

		if user, err = s.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return err
		}
		return nil
	})

	if err != nil {
		s.logger.Debug("RegisterUser rejected", "email", email, "error", err)
		return nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventRegistration, ActorRef{ID: user.ID.String(), Type: "user"}, user.ID.String(), map[string]any{
		"email": email,
	})

	return user, nil
}

// ValidLogin reports whether email identifies a user whose stored hash
// verifies against password. Unknown emails and bad passwords both fold into
// false; only store failures surface as errors.
func (s *Auther) ValidLogin(ctx context.Context, email, password string) (bool, error) {
	user, err := s.repo.Users().FindByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", map[string]any{
				"email": email,
			})
			return false, nil
		}
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := s.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{ID: user.ID.String(), Type: "user"}, user.ID.String(), map[string]any{
			"email": email,
		})
		return false, nil
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, ActorRef{ID: user.ID.String(), Type: "user"}, user.ID.String(), map[string]any{
		"email": email,
	})

	return true, nil
}

// CreateSession mints a session token for the user identified by email and
// persists it, replacing any previously active session. It does not verify
// the password; callers authenticate with ValidLogin first.
func (s *Auther) CreateSession(ctx context.Context, email string) (string, error) {
	user, err := s.repo.Users().FindByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for session")
	}

	token, err := s.tokens.NewToken()
	if err != nil {
		return "", err
	}

	if err := s.repo.Users().StoreSessionToken(ctx, user.ID, token); err != nil {
		return "", err
	}

	s.emitAuthEvent(ctx, ActivityEventSessionCreated, ActorRef{ID: user.ID.String(), Type: "user"}, user.ID.String(), nil)

	return token, nil
}

// GetUserBySession resolves a session token to its user. Absence is a value:
// an empty token or one that matches no user returns (nil, nil).
func (s *Auther) GetUserBySession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}

	user, err := s.repo.Users().FindBySessionToken(ctx, token)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve session token")
	}

	return user, nil
}

// DestroySession clears the user's session token unconditionally. Destroying
// an already absent session is a no-op, not an error.
func (s *Auther) DestroySession(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Users().ClearSessionToken(ctx, userID); err != nil {
		return err
	}

	s.emitAuthEvent(ctx, ActivityEventSessionDestroyed, ActorRef{ID: userID.String(), Type: "user"}, userID.String(), nil)

	return nil
}

// GetResetToken mints a single-use password reset token for the user
// identified by email, replacing any previously issued unconsumed token.
func (s *Auther) GetResetToken(ctx context.Context, email string) (string, error) {
	user, err := s.repo.Users().FindByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	token, err := s.tokens.NewToken()
	if err != nil {
		return "", err
	}

	if err := s.repo.Users().StoreResetToken(ctx, user.ID, token); err != nil {
		return "", err
	}

	s.emitAuthEvent(ctx, ActivityEventPasswordResetRequested, ActorRef{ID: user.ID.String(), Type: "user"}, user.ID.String(), map[string]any{
		"email": email,
	})

	return token, nil
}

// UpdatePassword consumes a reset token: it rotates the password hash and
// clears the token in the same transaction, so the token is single use. Any
// active session token is left untouched.
func (s *Auther) UpdatePassword(ctx context.Context, token, newPassword string) error {
	var user *User

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = s.repo.Users().FindByResetTokenTx(ctx, tx, token)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrInvalidResetToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not retrieve password reset request")
		}

		hash, err := s.hasher.HashPassword(newPassword)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash new password")
		}

		return s.repo.Users().ResetPasswordTx(ctx, tx, user.ID, hash)
	})

	if err != nil {
		return err
	}

	s.emitAuthEvent(ctx, ActivityEventPasswordResetSuccess, ActorRef{ID: user.ID.String(), Type: "user"}, user.ID.String(), nil)

	return nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, actor ActorRef, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		Actor:     actor,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}

package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model. Email is immutable after registration; the token
// columns carry unique indices so a token resolves to at most one user.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"password_hash,omitempty"`
	SessionToken  *string    `bun:"session_token,unique,nullzero" json:"session_token,omitempty"`
	ResetToken    *string    `bun:"reset_token,unique,nullzero" json:"reset_token,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// HasActiveSession reports whether the user currently holds a session token.
func (u *User) HasActiveSession() bool {
	return u != nil && u.SessionToken != nil && *u.SessionToken != ""
}

// HasPendingReset reports whether a password reset is in progress.
func (u *User) HasPendingReset() bool {
	return u != nil && u.ResetToken != nil && *u.ResetToken != ""
}

// Package auth implements session-based authentication: user registration,
// credential verification, opaque session token issuance/revocation, and a
// single-use password reset flow.
//
// Sessions:
//   - Session tokens are opaque random strings persisted on the User record.
//     A user holds at most one active session; issuing a new token replaces
//     the previous one. Callers carry the token in a cookie or header, the
//     core never inspects the transport encoding.
//
// Password resets:
//   - GetResetToken mints a single-use reset token for an existing user.
//     UpdatePassword consumes it, rotating the password hash and clearing the
//     token so it can never be replayed. Tokens do not expire by time.
//
// Storage:
//   - All mutable state lives in the Users repository. Email and token
//     uniqueness are enforced with unique indices so concurrent writers are
//     resolved by the store rejecting the losing write; the service maps
//     those rejections to ErrDuplicateEmail.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by Auther to describe
//     registration, login, logout, and password reset events. Sinks run
//     best-effort (errors are logged) so you can forward to a database or
//     queue without blocking authentication.
package auth

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

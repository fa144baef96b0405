package auth

import (
	"crypto/rand"
	"encoding/hex"

	goerrors "github.com/goliatone/go-errors"
)

// TokenBytes is the entropy drawn for every session and reset token.
// 32 bytes = 64 hex chars = 256 bits, comfortably above collision range.
const TokenBytes = 32

// TokenGenerator mints the opaque strings used for session and reset tokens.
type TokenGenerator interface {
	NewToken() (string, error)
}

type randomTokens struct{}

// NewTokenGenerator returns the default crypto/rand backed generator.
func NewTokenGenerator() TokenGenerator {
	return randomTokens{}
}

func (randomTokens) NewToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read token entropy")
	}
	return hex.EncodeToString(buf), nil
}

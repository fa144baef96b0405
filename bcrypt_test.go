package auth_test

import (
	"testing"

	auth "github.com/goliatone/go-session-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordProducesSaltedDigests(t *testing.T) {
	password := "correct horse battery staple"

	first, err := auth.HashPassword(password)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.NotEqual(t, password, first)

	second, err := auth.HashPassword(password)
	require.NoError(t, err)

	// fresh salt per call: same input, different digests
	assert.NotEqual(t, first, second)

	assert.True(t, auth.VerifyPassword(first, password))
	assert.True(t, auth.VerifyPassword(second, password))
}

func TestVerifyPasswordRejectsWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	assert.False(t, auth.VerifyPassword(hash, "battery staple"))
	assert.False(t, auth.VerifyPassword(hash, ""))
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	assert.False(t, auth.VerifyPassword("not-a-bcrypt-digest", "whatever"))
	assert.False(t, auth.VerifyPassword("", "whatever"))
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	require.NoError(t, auth.ComparePasswordAndHash("s3cret", hash))

	err = auth.ComparePasswordAndHash("nope", hash)
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)

	err = auth.ComparePasswordAndHash("nope", "garbage digest")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
}

func TestHashPasswordAllowsEmptyPassword(t *testing.T) {
	// empty-string policy belongs to the caller, not the hasher
	hash, err := auth.HashPassword("")
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword(hash, ""))
	assert.False(t, auth.VerifyPassword(hash, "x"))
}

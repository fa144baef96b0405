package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a salted password hash. A fresh salt is drawn on
// every call, so hashing the same password twice yields different digests.
// Empty passwords are not rejected here: that policy belongs to the caller.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. Malformed hashes fold into a mismatch rather than a
// distinct failure, so a corrupt digest can never authenticate.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// VerifyPassword reports whether password matches hash. It never errors.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type bcryptHasher struct{}

// NewPasswordAuthenticator returns the default bcrypt-backed hasher.
func NewPasswordAuthenticator() PasswordAuthenticator {
	return bcryptHasher{}
}

func (bcryptHasher) HashPassword(password string) (string, error) {
	return HashPassword(password)
}

func (bcryptHasher) ComparePasswordAndHash(password, hash string) error {
	return ComparePasswordAndHash(password, hash)
}

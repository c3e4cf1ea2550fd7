package utils

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashes credentials with bcrypt. The digest carries its own
// cost and salt, so Verify needs nothing but the stored string.
type PasswordHasher struct {
	Cost int
}

func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{Cost: cost}
}

// Hash hashes a given password using bcrypt.
func (p PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), p.Cost)
	return string(bytes), err
}

// Verify compares a plain password with its hashed version. A malformed
// digest is a mismatch.
func (p PasswordHasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

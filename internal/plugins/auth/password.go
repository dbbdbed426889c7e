package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword creates a salted bcrypt hash of the given password at the
// given cost. bcrypt embeds a fresh random salt in every hash, so hashing
// the same password twice yields different hashes. Costs below
// bcrypt.DefaultCost (10) are raised to it -- stored hashes are never
// cheaper than 10 rounds.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a stored bcrypt hash.
// Returns false for a wrong password or any malformed hash; it never
// panics. bcrypt's comparison is constant-time against the derived key.
func VerifyPassword(password, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}

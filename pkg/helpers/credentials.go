package helpers

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// emailPattern only checks the local@domain.tld shape, nothing RFC deep.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password.
// A malformed hash compares as a mismatch.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidEmail reports whether s looks like local@domain.tld
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

package security

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the fixed work factor the service has always used.
const bcryptCost = 10

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword fails closed: a malformed digest compares as a mismatch
// rather than surfacing an error to caller logic.
func VerifyPassword(encoded, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

package utils

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var pincodePattern = regexp.MustCompile(`^\d{4}$`)

// HashSecret returns the bcrypt hash of a secret (password or pincode).
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckSecret compares a bcrypt hash with its possible plaintext equivalent.
func CheckSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// ValidPincode reports whether the supplied pincode is exactly four digits.
func ValidPincode(pincode string) bool {
	return pincodePattern.MatchString(pincode)
}

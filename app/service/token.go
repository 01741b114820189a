package service

import (
	"crypto/rand"
	"encoding/hex"
)

const resetTokenBytes = 32

// GenerateResetToken produces an opaque hex-encoded token with 256 bits of
// entropy.
func GenerateResetToken() (string, error) {
	secret := make([]byte, resetTokenBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", err
	}
	return hex.EncodeToString(secret), nil
}

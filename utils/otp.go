package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateNumericCode generates a secure random numeric code of the given
// length. Leading zeros are allowed.
func GenerateNumericCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

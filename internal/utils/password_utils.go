package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	GeneratedPasswordLength  = 8
	GeneratedPasswordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GeneratePassword returns a random string of the given size drawn from
// uppercase letters and digits.
func GeneratePassword(size int) (string, error) {
	max := big.NewInt(int64(len(GeneratedPasswordCharset)))
	out := make([]byte, size)

	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = GeneratedPasswordCharset[n.Int64()]
	}

	return string(out), nil
}

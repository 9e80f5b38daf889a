package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOTP returns a 4-digit numeric one-time code drawn uniformly from
// [0000, 9999] using a cryptographically secure source.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n), nil
}

// Package code issues and validates one-time phone verification codes backed
// by a TTL store.
package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	codeMin  = 100000
	codeSpan = 900000
)

// Generate returns a 6-digit verification code drawn uniformly from
// [100000, 999999] using crypto/rand.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}

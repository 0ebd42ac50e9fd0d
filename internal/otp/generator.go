package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateCode returns a uniformly distributed 6-digit numeric code in
// 100000–999999. crypto/rand keeps prior outputs from narrowing the search
// space for a live code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

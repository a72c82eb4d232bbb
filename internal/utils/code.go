package utils

import (
	"crypto/rand" // Secure random source
	"fmt"         // Code formatting
	"math/big"    // Random integer bounds
	"time"        // Expiry window
)

// CodeTTL is how long a verification or reset code stays valid
const CodeTTL = 10 * time.Minute

// GenerateVerificationCode returns a random 6-digit numeric code
func GenerateVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails when the platform source is broken
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()) // Zero-padded to 6 digits
}

// CodeExpired reports whether a stored code has passed its expiry
func CodeExpired(expiresAt *time.Time) bool {
	return expiresAt == nil || time.Now().After(*expiresAt)
}

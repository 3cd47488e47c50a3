package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// codeRange spans the 6-digit space [100000, 999999].
var codeRange = big.NewInt(900000)

// newVerificationCode returns a uniformly distributed 6-digit numeric
// string drawn from a cryptographically secure source.
func newVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// newSessionToken returns an opaque bearer token: a fixed prefix plus
// 32 hex characters (16 random bytes), enough to make collisions
// within a store's lifetime a non-concern.
func newSessionToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return "session_" + hex.EncodeToString(b), nil
}

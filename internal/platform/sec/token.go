// Copyright (c) 2026 Lawha. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a URL-safe random token of byteLength entropy bytes.
//
// It is used for refresh tokens, password-reset tokens, and email verification
// tokens. The returned string is base64url-encoded, so it is slightly longer
// than byteLength.
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the hex-encoded SHA-256 digest of token.
//
// Refresh tokens are stored hashed so a database leak does not expose live
// session credentials. SHA-256 (not bcrypt) is sufficient here because the
// input is already high-entropy random data.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

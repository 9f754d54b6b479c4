/*
Package randx provides helpers for generating random secrets and account identifiers.
*/
package randx

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// BootSecretBytes is the entropy (in bytes) of a per-boot signing secret.
const BootSecretBytes = 32

// BootSecret generates a random hex-encoded signing secret.
// A secret minted at startup makes every session token die with the process,
// which is exactly the lifetime the in-memory session model calls for.
func BootSecret() (string, error) {
	b := make([]byte, BootSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate boot secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// AccountID derives a new account identifier from the given instant.
// The format is "u" followed by unix milliseconds, continuing the numbering
// convention of the seeded demo accounts (u1, u2, u3).
func AccountID(now time.Time) string {
	return "u" + strconv.FormatInt(now.UnixMilli(), 10)
}

package services

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// hashSecret derives the stored credential digest. The digest is
// deterministic so login can compare it against the stored value; SHA3-256
// keeps it one-way and fixed-length.
func hashSecret(secret string) string {
	sum := sha3.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

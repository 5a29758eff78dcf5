package cardsec

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPAN computes the lowercase-hex SHA-256 digest of a raw card number.
// Do not log or persist the input PAN; callers must sanitize logs separately.
func HashPAN(pan string) string {
	sum := sha256.Sum256([]byte(pan))
	return hex.EncodeToString(sum[:])
}

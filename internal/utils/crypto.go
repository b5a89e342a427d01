package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex is used to store refresh tokens as digests rather than in clear.
func SHA256Hex(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

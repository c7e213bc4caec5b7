// Package checksum fingerprints threads-file content for change detection.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag quotes sum for use in an HTTP ETag header.
func ETag(sum string) string {
	return `"` + sum + `"`
}

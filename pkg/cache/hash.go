package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key returns "<format>:<sha256 of source>".
func Key(format, source string) string {
	return format + ":" + Hash([]byte(source))
}

// splitKey returns the format and digest of a key built by [Key]. Keys of
// another shape are filed under "other" and digested whole.
func splitKey(key string) (format, digest string) {
	format, digest, ok := strings.Cut(key, ":")
	if !ok || format == "" || len(digest) != sha256.Size*2 {
		return "other", Hash([]byte(key))
	}
	return format, digest
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

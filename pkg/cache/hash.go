package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the JSON encoding of parts.
// The key format is: prefix:hash(parts...)
//
// parts must be plain values (ints, strings, int slices). Marshal cannot
// fail for those, so its error is not checked. Callers normalize nil slices
// first since nil and empty encode differently.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

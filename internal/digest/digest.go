package digest

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Sum returns the SHA-256 of payload as a hex string.
func Sum(payload []byte) string {
	hashBytes := sha256.Sum256(payload)
	return fmt.Sprintf("%x", hashBytes)
}

// ETag returns a strong entity tag for payload.
func ETag(payload []byte) string {
	return `"` + Sum(payload) + `"`
}

// Matches reports whether an If-None-Match header value names etag.
// It accepts a comma-separated list, weak tags, and "*".
func Matches(ifNoneMatch, etag string) bool {
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

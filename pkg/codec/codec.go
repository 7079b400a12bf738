// Package codec provides the byte-level primitives shared by the rest of
// the SDK: SHA-256 hex digests, base64 transport encoding, and validation
// helpers for Swarm references.
package codec

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// ReferenceLength is the length in hex characters of a Swarm reference.
const ReferenceLength = 64

// StringBytes returns the UTF-8 encoding of s. Go strings are already
// UTF-8, so this is a plain conversion; it exists to make the
// content-to-bytes step explicit at call sites.
func StringBytes(s string) []byte {
	return []byte(s)
}

// SHA256Hex returns the lowercase hex SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SHA256HexString returns the lowercase hex SHA-256 digest of the UTF-8
// bytes of s.
func SHA256HexString(s string) string {
	return SHA256Hex(StringBytes(s))
}

// BytesToBase64 encodes data as standard base64 (RFC 4648, padded).
func BytesToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Base64ToBytes decodes standard base64. The empty string decodes to an
// empty byte slice.
func Base64ToBytes(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	return data, nil
}

// IsValidHex reports whether s is non-empty and consists only of hex
// characters (either case).
func IsValidHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// IsValidSwarmReference reports whether ref is a well-formed Swarm
// reference: exactly 64 hex characters.
func IsValidSwarmReference(ref string) bool {
	return len(ref) == ReferenceLength && IsValidHex(ref)
}

// NormalizeReference trims surrounding whitespace and lowercases ref. It
// does not validate; callers that need validation use
// IsValidSwarmReference on the normalized value.
func NormalizeReference(ref string) string {
	return strings.ToLower(strings.TrimSpace(ref))
}

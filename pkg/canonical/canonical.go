// Package canonical provides deterministic JSON serialization for digest
// computation. The canonical form sorts object keys lexicographically,
// preserves array order, and contains no whitespace, so two parties that
// hash the same logical value obtain the same digest byte-for-byte.
//
// The canonical form is used only for data-hash reconstruction. Transport
// serialization of metadata is ordinary encoding/json.
package canonical

import (
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/datafund/swarm-provenance-SDK/pkg/codec"
)

// Marshal returns the canonical JSON encoding of v.
//
// v is first marshaled with encoding/json (so struct tags apply), then the
// intermediate JSON is transformed per RFC 8785: keys sorted, whitespace
// stripped, HTML escaping undone.
func Marshal(v any) ([]byte, error) {
	intermediate, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonical: pre-marshal failed: %w", err)
	}
	out, err := jcs.Transform(intermediate)
	if err != nil {
		return nil, fmt.Errorf("canonical: transform failed: %w", err)
	}
	return out, nil
}

// Hash returns the lowercase hex SHA-256 digest of the canonical JSON
// encoding of v.
func Hash(v any) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return codec.SHA256Hex(b), nil
}

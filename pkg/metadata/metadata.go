// Package metadata defines the provenance metadata record: the unit of
// stored truth on the gateway. A record carries base64-encoded content,
// the SHA-256 digest of the raw content, the postage stamp used for the
// upload, and optional advisory tags.
package metadata

import (
	"encoding/json"
	"fmt"

	"github.com/datafund/swarm-provenance-SDK/pkg/codec"
)

// ProvenanceMetadata is a provenance record as stored on the gateway.
//
// The invariant sha256(base64_decode(Data)) == ContentHash must hold for
// any record considered valid. Build always establishes it; downloads
// check it via VerifyContentHash.
type ProvenanceMetadata struct {
	// Data is the content, base64-encoded for transport.
	Data string `json:"data"`

	// ContentHash is the lowercase hex SHA-256 digest of the raw
	// (pre-encoding) content bytes.
	ContentHash string `json:"content_hash"`

	// StampID identifies the storage-capacity allocation used for the
	// upload. Opaque to this library.
	StampID string `json:"stamp_id"`

	// ProvenanceStandard optionally tags the semantic schema of the
	// payload. Omitted from serialized output when unset.
	ProvenanceStandard string `json:"provenance_standard,omitempty"`

	// Encryption optionally names an encryption method. Advisory only:
	// this library performs no encryption or decryption.
	Encryption string `json:"encryption,omitempty"`
}

// BuildOptions configures Build.
type BuildOptions struct {
	StampID  string
	Standard string

	// Encryption is recorded verbatim in the metadata. The content is
	// stored as given; callers who want encrypted payloads encrypt
	// before calling Build.
	Encryption string
}

// Build constructs a fresh metadata record for content. The content hash
// is always computed here, so a built record trivially satisfies the
// content-hash invariant. Optional fields are set only when non-empty so
// serialized output omits them entirely rather than emitting nulls.
func Build(content []byte, opts BuildOptions) *ProvenanceMetadata {
	m := &ProvenanceMetadata{
		Data:        codec.BytesToBase64(content),
		ContentHash: codec.SHA256Hex(content),
		StampID:     opts.StampID,
	}
	if opts.Standard != "" {
		m.ProvenanceStandard = opts.Standard
	}
	if opts.Encryption != "" {
		m.Encryption = opts.Encryption
	}
	return m
}

// ExtractContent decodes the base64 content. It does not validate the
// content hash; verification is a separate explicit step.
func (m *ProvenanceMetadata) ExtractContent() ([]byte, error) {
	return codec.Base64ToBytes(m.Data)
}

// VerifyContentHash recomputes the content hash over the decoded content
// and compares it to ContentHash. Undecodable content or a mismatched
// digest both report false; this never errors.
func (m *ProvenanceMetadata) VerifyContentHash() bool {
	content, err := m.ExtractContent()
	if err != nil {
		return false
	}
	return codec.SHA256Hex(content) == m.ContentHash
}

// Serialize encodes m as JSON.
func Serialize(m *ProvenanceMetadata) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("serializing metadata: %w", err)
	}
	return b, nil
}

// requiredFields are the metadata fields every record must carry, in the
// order they are reported when missing.
var requiredFields = []string{"data", "content_hash", "stamp_id"}

// optionalFields are copied through only when present and string-typed.
var optionalFields = []string{"provenance_standard", "encryption"}

// Parse decodes a metadata record from JSON, reporting exactly which
// required field is missing or of the wrong type. Unknown fields are
// ignored. Optional fields are copied only when present and string-typed.
func Parse(raw []byte) (*ProvenanceMetadata, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}
	return FromFields(fields)
}

// FromFields builds a metadata record from pre-split JSON fields. Used by
// Parse and by gateway response normalization, where the metadata fields
// may arrive flattened alongside unrelated siblings.
func FromFields(fields map[string]json.RawMessage) (*ProvenanceMetadata, error) {
	values := make(map[string]string, len(requiredFields)+len(optionalFields))
	for _, name := range requiredFields {
		raw, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("parsing metadata: missing required field %q", name)
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("parsing metadata: field %q must be a string", name)
		}
		values[name] = value
	}
	for _, name := range optionalFields {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			// Present but not a string: skip rather than fail, the
			// required shape is intact.
			continue
		}
		values[name] = value
	}
	return &ProvenanceMetadata{
		Data:               values["data"],
		ContentHash:        values["content_hash"],
		StampID:            values["stamp_id"],
		ProvenanceStandard: values["provenance_standard"],
		Encryption:         values["encryption"],
	}, nil
}

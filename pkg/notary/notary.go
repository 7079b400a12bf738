// Package notary defines notary attestations over provenance metadata and
// the verification protocol for them.
//
// A notary signature covers a declared subset of metadata fields (its
// "hashed fields"). Verification recomputes the data hash from those
// fields and, optionally, compares the asserted signer against an
// expected address. No cryptographic signature recovery is performed:
// signer authenticity is a string comparison of the asserted signer
// field. A result that is valid without a signer check means "hash
// checked, authenticity not attested against a root of trust"; callers
// that need authenticity must supply an expected signer.
package notary

import (
	"strings"

	"github.com/datafund/swarm-provenance-SDK/pkg/canonical"
	"github.com/datafund/swarm-provenance-SDK/pkg/codec"
	"github.com/datafund/swarm-provenance-SDK/pkg/metadata"
)

// Signature is a notary attestation over a subset of metadata fields.
type Signature struct {
	// Type tags the signing scheme, e.g. "eip191".
	Type string `json:"type"`

	// Signer is the claimed identity of the signer, typically an
	// address-like identifier.
	Signer string `json:"signer"`

	// Timestamp is the ISO-8601 instant of signing.
	Timestamp string `json:"timestamp"`

	// DataHash is the hex digest the signer claims to have signed,
	// computed over the canonicalized view of HashedFields.
	DataHash string `json:"data_hash"`

	// SignatureValue holds the opaque signature bytes. Never
	// cryptographically verified by this library.
	SignatureValue string `json:"signature"`

	// HashedFields lists, in order, the metadata field names included
	// when DataHash was computed.
	HashedFields []string `json:"hashed_fields"`

	// SignedMessageFormat is a template with {data_hash} and
	// {timestamp} placeholders describing what was actually signed.
	SignedMessageFormat string `json:"signed_message_format"`
}

// SignedDocument pairs one metadata record with its notary signatures,
// as produced by the gateway on signed uploads and downloads.
type SignedDocument struct {
	Metadata   *metadata.ProvenanceMetadata `json:"metadata"`
	Signatures []Signature                  `json:"signatures"`
}

// VerificationResult is the outcome of verifying one signature.
type VerificationResult struct {
	// Valid is the overall verdict.
	Valid bool `json:"valid"`

	// DataHashValid reports whether the recomputed data hash matched.
	DataHashValid bool `json:"data_hash_valid"`

	// SignerValid reports the signer comparison. Nil when no expected
	// signer was supplied: the hash was checked but the asserted
	// signer was not attested against anything.
	SignerValid *bool `json:"signer_valid,omitempty"`

	// Error describes why verification failed, empty when Valid.
	Error string `json:"error,omitempty"`
}

// AllVerificationResult aggregates per-signature results.
type AllVerificationResult struct {
	// AllValid is the conjunction of every per-signature verdict.
	// Vacuously true for an empty signature list.
	AllValid bool `json:"all_valid"`

	// Results holds one entry per signature, preserving input order.
	Results []VerificationResult `json:"results"`
}

// hashedFieldValue returns the value of a recognized hashed field on m,
// and whether the field name is recognized at all.
func hashedFieldValue(name string, m *metadata.ProvenanceMetadata) (string, bool) {
	switch name {
	case "content_hash":
		return m.ContentHash, true
	case "data":
		return m.Data, true
	case "stamp_id":
		return m.StampID, true
	case "provenance_standard":
		// Defaults to empty string when absent on the metadata.
		return m.ProvenanceStandard, true
	default:
		return "", false
	}
}

// VerifyDataHash recomputes the data hash declared by sig against m and
// compares it to sig.DataHash (case-sensitive).
//
// When HashedFields is exactly ["data"], the bare data string is hashed
// directly: the gateway hashes the field value itself, not an object
// wrapper. Otherwise the recognized hashed fields are assembled into an
// object and canonicalized before hashing; unrecognized field names are
// silently skipped.
func VerifyDataHash(sig Signature, m *metadata.ProvenanceMetadata) bool {
	if len(sig.HashedFields) == 1 && sig.HashedFields[0] == "data" {
		return codec.SHA256HexString(m.Data) == sig.DataHash
	}

	obj := make(map[string]string)
	for _, name := range sig.HashedFields {
		value, ok := hashedFieldValue(name, m)
		if !ok {
			continue
		}
		obj[name] = value
	}
	computed, err := canonical.Hash(obj)
	if err != nil {
		return false
	}
	return computed == sig.DataHash
}

// ReconstructSignedMessage substitutes the data hash and timestamp into
// sig.SignedMessageFormat, replacing the first occurrence of each
// placeholder. The result is for human audit display only; it plays no
// part in verification.
func ReconstructSignedMessage(sig Signature) string {
	message := strings.Replace(sig.SignedMessageFormat, "{data_hash}", sig.DataHash, 1)
	return strings.Replace(message, "{timestamp}", sig.Timestamp, 1)
}

// VerifySignature checks sig against m and, when expectedSigner is
// non-empty, against the expected signer address (case-insensitive).
//
// A data-hash mismatch short-circuits: the signer is not checked. With
// no expected signer the result can be Valid with SignerValid nil, which
// is the deliberate weak mode described in the package comment.
func VerifySignature(sig Signature, m *metadata.ProvenanceMetadata, expectedSigner string) VerificationResult {
	if !VerifyDataHash(sig, m) {
		return VerificationResult{
			Valid:         false,
			DataHashValid: false,
			Error:         "data hash mismatch",
		}
	}

	result := VerificationResult{
		Valid:         true,
		DataHashValid: true,
	}
	if expectedSigner == "" {
		return result
	}

	signerValid := strings.EqualFold(sig.Signer, expectedSigner)
	result.SignerValid = &signerValid
	if !signerValid {
		result.Valid = false
		result.Error = "signer mismatch: signature claims " + sig.Signer + ", expected " + expectedSigner
	}
	return result
}

// VerifyAllSignatures verifies every signature against m, preserving
// input order in the results.
func VerifyAllSignatures(sigs []Signature, m *metadata.ProvenanceMetadata, expectedSigner string) AllVerificationResult {
	all := AllVerificationResult{
		AllValid: true,
		Results:  make([]VerificationResult, 0, len(sigs)),
	}
	for _, sig := range sigs {
		result := VerifySignature(sig, m, expectedSigner)
		all.Results = append(all.Results, result)
		if !result.Valid {
			all.AllValid = false
		}
	}
	return all
}

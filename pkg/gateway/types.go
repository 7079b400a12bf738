package gateway

import (
	"github.com/datafund/swarm-provenance-SDK/pkg/metadata"
	"github.com/datafund/swarm-provenance-SDK/pkg/notary"
)

// NotaryInfo is the gateway's notary status, as returned by
// GET /api/v1/notary/info. A 404 from the gateway is reported as the
// zero-valued (disabled) status, not an error.
type NotaryInfo struct {
	Enabled   bool   `json:"enabled"`
	Available bool   `json:"available"`
	Address   string `json:"address,omitempty"`
	Message   string `json:"message,omitempty"`
}

// PoolStatus is the stamp pool status, as returned by
// GET /api/v1/pool/status. Maps are keyed by size class.
type PoolStatus struct {
	Enabled   bool           `json:"enabled"`
	Available map[string]int `json:"available"`
	Reserve   map[string]int `json:"reserve"`
}

// AcquiredStamp is a capacity allocation granted by the pool.
type AcquiredStamp struct {
	BatchID      string `json:"batch_id"`
	Depth        int    `json:"depth"`
	SizeName     string `json:"size_name"`
	FallbackUsed bool   `json:"fallback_used"`
}

// SignNotary requests notary signing on upload.
const SignNotary = "notary"

// UploadOptions configures Upload.
type UploadOptions struct {
	// StampID uses an already-acquired stamp. When empty, a stamp is
	// acquired from the pool for Size before uploading.
	StampID string

	// Size is the size class requested from the pool when StampID is
	// empty. Passed through to the gateway verbatim.
	Size string

	// ContentType is forwarded to the gateway as a query parameter.
	ContentType string

	// Standard tags the semantic schema of the payload
	// (provenance_standard on the stored record).
	Standard string

	// Encryption names an encryption method, recorded as advisory
	// metadata. No encryption is performed by this library.
	Encryption string

	// Sign requests gateway-side signing; use SignNotary. A failed
	// upload with signing requested is reported as a NotaryError.
	Sign string
}

// UploadResult is the outcome of a successful upload.
type UploadResult struct {
	// Reference locates the stored record: 64 hex characters.
	Reference string `json:"reference"`

	// StampID is the stamp the upload was billed to, whether supplied
	// by the caller or acquired from the pool.
	StampID string `json:"stamp_id"`

	// SignedDocument is present when the gateway signed the upload. It
	// is surfaced verbatim and is not re-verified client-side;
	// verification happens on download.
	SignedDocument *notary.SignedDocument `json:"signed_document,omitempty"`
}

// DownloadOptions configures Download.
type DownloadOptions struct {
	// SkipVerification disables signature verification. The content
	// hash is always verified regardless.
	SkipVerification bool
}

// DownloadResult is the outcome of a successful download.
type DownloadResult struct {
	// Data is the decoded content.
	Data []byte

	// Metadata is the stored record, content hash already verified.
	Metadata *metadata.ProvenanceMetadata

	// Signatures are the notary signatures attached to the record, if
	// any.
	Signatures []notary.Signature

	// Verified aggregates signature verification: true only when every
	// signature verified. Nil when there were no signatures or
	// verification was skipped. Note that true may mean hash-only
	// verification when the gateway advertised no notary address.
	Verified *bool

	// Verification holds the per-signature results backing Verified.
	// Nil exactly when Verified is.
	Verification *notary.AllVerificationResult
}

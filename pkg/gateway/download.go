package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/datafund/swarm-provenance-SDK/pkg/codec"
	"github.com/datafund/swarm-provenance-SDK/pkg/metadata"
	"github.com/datafund/swarm-provenance-SDK/pkg/notary"
)

// Download retrieves a provenance record by reference and re-verifies it
// locally before returning anything to the caller.
//
// The content hash is always checked and a mismatch is fatal: the
// operation fails with a ProvenanceError coded CONTENT_HASH_MISMATCH and
// no decoded content is returned. Signature verification, by contrast,
// never fails the download: an unsigned or badly-signed document is
// still a legitimately retrievable artifact, so its outcome is reported
// through Verified and the per-signature results instead. When signatures are
// present and verification is enabled, the current notary info is
// fetched fresh to obtain the expected signer address; if the gateway
// advertises no address, signatures are verified in hash-only mode.
func (c *Client) Download(ctx context.Context, reference string, opts DownloadOptions) (*DownloadResult, error) {
	ctx, span := c.tracer.Start(ctx, "gateway.download")
	defer span.End()

	ref := codec.NormalizeReference(reference)
	if !codec.IsValidSwarmReference(ref) {
		return nil, &ProvenanceError{
			Code:    CodeInvalidReference,
			Message: "reference must be 64 hex characters",
		}
	}
	span.SetAttributes(attribute.String("provenance.reference", ref))

	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/data/"+ref, nil, "")
	if err != nil {
		return nil, newConnectionError(CodeConnectionFailed, "building download request", 0, err)
	}
	payload, status, err := c.send(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "download failed")
		return nil, err
	}
	if status < 200 || status >= 300 {
		code, message := gatewayFailure(payload, status)
		span.SetStatus(codes.Error, message)
		return nil, newConnectionError(code, message, status, nil)
	}

	m, signatures, err := normalizeDownloadResponse(payload)
	if err != nil {
		return nil, err
	}

	// Fail closed on tampering: nothing is returned unless the content
	// matches its declared hash.
	content, err := m.ExtractContent()
	if err != nil || codec.SHA256Hex(content) != m.ContentHash {
		span.SetStatus(codes.Error, "content hash mismatch")
		return nil, &ProvenanceError{
			Code:    CodeContentHashMismatch,
			Message: "downloaded content does not match its declared hash",
		}
	}

	result := &DownloadResult{
		Data:       content,
		Metadata:   m,
		Signatures: signatures,
	}

	if len(signatures) > 0 && !opts.SkipVerification {
		info, err := c.NotaryInfo(ctx)
		if err != nil {
			span.RecordError(err)
			return nil, &VerificationError{ProvenanceError{
				Message: "fetching notary info for signature verification",
				Err:     err,
			}}
		}
		expectedSigner := ""
		if info.Enabled && info.Address != "" {
			expectedSigner = info.Address
		}

		verification := notary.VerifyAllSignatures(signatures, m, expectedSigner)
		verified := verification.AllValid
		result.Verified = &verified
		result.Verification = &verification

		c.logger.Debug("verified signatures",
			"reference", ref,
			"count", len(signatures),
			"all_valid", verified,
			"signer_checked", expectedSigner != "")
	}

	return result, nil
}

// normalizeDownloadResponse accepts both gateway response shapes, the
// wrapped form {"metadata": {...}, "signatures": [...]} and the
// flattened form with metadata fields at the top level and "signatures"
// as a sibling, and produces a uniform (metadata, signatures) pair.
func normalizeDownloadResponse(payload []byte) (*metadata.ProvenanceMetadata, []notary.Signature, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, nil, &ProvenanceError{Message: "decoding download response", Err: err}
	}

	var signatures []notary.Signature
	if raw, ok := fields["signatures"]; ok {
		if err := json.Unmarshal(raw, &signatures); err != nil {
			return nil, nil, &ProvenanceError{Message: "decoding signatures", Err: err}
		}
	}

	if raw, ok := fields["metadata"]; ok {
		m, err := metadata.Parse(raw)
		if err != nil {
			return nil, nil, &ProvenanceError{Message: "decoding wrapped metadata", Err: err}
		}
		return m, signatures, nil
	}

	m, err := metadata.FromFields(fields)
	if err != nil {
		return nil, nil, &ProvenanceError{Message: "decoding flattened metadata", Err: err}
	}
	return m, signatures, nil
}

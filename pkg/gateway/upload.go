package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/datafund/swarm-provenance-SDK/pkg/metadata"
	"github.com/datafund/swarm-provenance-SDK/pkg/notary"
)

// uploadResponse is the gateway's wire response to a data upload.
type uploadResponse struct {
	Reference      string                 `json:"reference"`
	SignedDocument *notary.SignedDocument `json:"signed_document"`
}

// Upload stores content on the gateway as a provenance record.
//
// The stamp is resolved first: a caller-supplied stamp id is used as-is
// with no network call, otherwise one is acquired from the pool for
// opts.Size. The metadata record is then built locally and submitted as
// a single-file multipart form.
//
// When signing was requested, any upload failure is reported as a
// NotaryError wrapping the gateway's message, since a failure on a
// signing request is most actionably a notary problem. Without signing,
// failures surface as the raw ConnectionError. A signed document
// attached to the response is surfaced verbatim; it is not re-verified
// here (verification happens on download).
func (c *Client) Upload(ctx context.Context, content []byte, opts UploadOptions) (*UploadResult, error) {
	ctx, span := c.tracer.Start(ctx, "gateway.upload")
	defer span.End()

	stampID := opts.StampID
	if stampID == "" {
		stamp, err := c.AcquireStamp(ctx, opts.Size)
		if err != nil {
			span.SetStatus(codes.Error, "stamp acquisition failed")
			return nil, err
		}
		stampID = stamp.BatchID
	}
	span.SetAttributes(attribute.String("provenance.stamp_id", stampID))

	m := metadata.Build(content, metadata.BuildOptions{
		StampID:    stampID,
		Standard:   opts.Standard,
		Encryption: opts.Encryption,
	})
	record, err := metadata.Serialize(m)
	if err != nil {
		return nil, &ProvenanceError{Message: "serializing metadata", Err: err}
	}

	body, contentType, err := metadataForm(record)
	if err != nil {
		return nil, &ProvenanceError{Message: "building upload form", Err: err}
	}

	query := url.Values{}
	query.Set("stamp_id", stampID)
	if opts.ContentType != "" {
		query.Set("content_type", opts.ContentType)
	}
	if opts.Sign != "" {
		query.Set("sign", opts.Sign)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/data/?"+query.Encode(), body, contentType)
	if err != nil {
		return nil, &ProvenanceError{Message: "building upload request", Err: err}
	}

	payload, status, err := c.send(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload failed")
		return nil, classifyUploadFailure(opts.Sign, err, "upload failed")
	}
	if status < 200 || status >= 300 {
		code, message := gatewayFailure(payload, status)
		connErr := newConnectionError(code, message, status, nil)
		span.SetStatus(codes.Error, message)
		return nil, classifyUploadFailure(opts.Sign, connErr, message)
	}

	var resp uploadResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &ProvenanceError{Message: "decoding upload response", Err: err}
	}
	if resp.Reference == "" {
		return nil, &ProvenanceError{Message: "upload response missing reference"}
	}

	c.logger.Info("uploaded provenance record",
		"reference", resp.Reference,
		"stamp_id", stampID,
		"signed", resp.SignedDocument != nil)

	return &UploadResult{
		Reference:      resp.Reference,
		StampID:        stampID,
		SignedDocument: resp.SignedDocument,
	}, nil
}

// classifyUploadFailure wraps an upload failure as a NotaryError when
// signing was requested, and passes the underlying error through
// otherwise.
func classifyUploadFailure(sign string, err error, message string) error {
	if sign == "" {
		return err
	}
	return &NotaryError{ProvenanceError{
		Message: fmt.Sprintf("signed upload failed: %s", message),
		Err:     err,
	}}
}

// metadataForm packs the serialized metadata record into a single-file
// multipart form, the shape the gateway expects for data uploads.
func metadataForm(record []byte) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "metadata.json")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(record); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &body, writer.FormDataContentType(), nil
}

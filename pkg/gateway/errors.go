package gateway

import "fmt"

// Machine-readable error codes carried by the error taxonomy.
const (
	// CodeTimeout marks a request that exceeded the configured deadline.
	CodeTimeout = "TIMEOUT"

	// CodeConnectionFailed marks a transport-level failure or a non-2xx
	// gateway response with no more specific classification.
	CodeConnectionFailed = "CONNECTION_FAILED"

	// CodeContentHashMismatch marks a downloaded record whose content
	// does not match its declared hash. Always fatal.
	CodeContentHashMismatch = "CONTENT_HASH_MISMATCH"

	// CodeInvalidReference marks a malformed Swarm reference.
	CodeInvalidReference = "INVALID_REFERENCE"
)

// ProvenanceError is the base error kind. It is used directly for
// generic failures such as a content-hash mismatch, and embedded by the
// specialized kinds below.
type ProvenanceError struct {
	// Code is an optional machine-readable code.
	Code string

	// Message describes the failure.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ProvenanceError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProvenanceError) Unwrap() error {
	return e.Err
}

// ConnectionError reports a transport failure, timeout, or unclassified
// non-2xx gateway response.
type ConnectionError struct {
	ProvenanceError

	// StatusCode is the HTTP status when one was received, 0 otherwise.
	StatusCode int
}

// StampError reports a failure during stamp acquisition.
type StampError struct {
	ProvenanceError
}

// NotaryError reports a failure during a signing-enabled upload. A
// failure on such a request is most actionably reported as a notary
// problem even when its underlying cause is generic.
type NotaryError struct {
	ProvenanceError
}

// VerificationError reports a failure in the signature verification
// pathway itself, such as the notary-info lookup that supplies the
// expected signer. Signature invalidity is never reported this way: an
// invalid signature is surfaced through the verification result, not an
// error.
type VerificationError struct {
	ProvenanceError
}

func newConnectionError(code, message string, status int, err error) *ConnectionError {
	return &ConnectionError{
		ProvenanceError: ProvenanceError{Code: code, Message: message, Err: err},
		StatusCode:      status,
	}
}

// Package gateway implements the client for the provenance gateway: a
// remote HTTP service that stores provenance records on a
// content-addressed storage network and optionally has them attested by
// a notary.
//
// The client is stateless between calls: it holds only immutable
// configuration, so a single instance is safe for concurrent use. Every
// operation is a fresh network round trip bounded by the configured
// timeout; nothing is cached and nothing is retried internally.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Defaults applied by New.
const (
	DefaultGatewayURL  = "https://gateway.fairdatasociety.org"
	DefaultTimeout     = 30 * time.Second
	DefaultPaymentMode = "free"
)

const (
	headerPaymentMode = "X-Payment-Mode"
	headerRequestID   = "X-Request-ID"
)

// Client talks to the provenance gateway.
type Client struct {
	gatewayURL  string
	paymentMode string
	httpClient  *http.Client
	logger      *slog.Logger
	tracer      trace.Tracer
}

// Option configures the client.
type Option func(*Client)

// WithGatewayURL sets the gateway base URL. A trailing slash is trimmed.
func WithGatewayURL(u string) Option {
	return func(c *Client) { c.gatewayURL = strings.TrimRight(u, "/") }
}

// WithTimeout sets the per-request deadline. On expiry the in-flight
// request is cancelled and a ConnectionError with code TIMEOUT is
// returned.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client. The caller owns
// its timeout configuration.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPaymentMode overrides the X-Payment-Mode header value attached to
// every request.
func WithPaymentMode(mode string) Option {
	return func(c *Client) { c.paymentMode = mode }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a gateway client.
func New(opts ...Option) *Client {
	c := &Client{
		gatewayURL:  DefaultGatewayURL,
		paymentMode: DefaultPaymentMode,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		logger:      slog.Default().With("component", "gateway"),
		tracer:      otel.Tracer("github.com/datafund/swarm-provenance-SDK/pkg/gateway"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GatewayURL returns the configured gateway base URL.
func (c *Client) GatewayURL() string {
	return c.gatewayURL
}

// Health reports gateway liveness: GET /health. It never returns an
// error; every failure, transport or HTTP, is reported as false.
func (c *Client) Health(ctx context.Context) bool {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil, "")
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// NotaryInfo fetches the gateway's notary status. A 404 means the
// notary feature is disabled and yields a default disabled status, not
// an error.
func (c *Client) NotaryInfo(ctx context.Context) (*NotaryInfo, error) {
	var info NotaryInfo
	if err := c.getJSON(ctx, "/api/v1/notary/info", &info); err != nil {
		if isNotFound(err) {
			return &NotaryInfo{}, nil
		}
		return nil, err
	}
	return &info, nil
}

// PoolStatus fetches the stamp pool status. A 404 means the pool
// feature is disabled and yields a default disabled status, not an
// error.
func (c *Client) PoolStatus(ctx context.Context) (*PoolStatus, error) {
	var status PoolStatus
	if err := c.getJSON(ctx, "/api/v1/pool/status", &status); err != nil {
		if isNotFound(err) {
			return &PoolStatus{
				Available: map[string]int{},
				Reserve:   map[string]int{},
			}, nil
		}
		return nil, err
	}
	return &status, nil
}

// AcquireStamp requests a capacity allocation from the pool for the
// given size class. Every failure, regardless of HTTP status, is
// reported as a StampError.
func (c *Client) AcquireStamp(ctx context.Context, size string) (*AcquiredStamp, error) {
	ctx, span := c.tracer.Start(ctx, "gateway.acquire_stamp")
	defer span.End()

	body, err := json.Marshal(map[string]string{"size": size})
	if err != nil {
		return nil, &StampError{ProvenanceError{Message: "encoding acquire request", Err: err}}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/pool/acquire", bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, &StampError{ProvenanceError{Message: "building acquire request", Err: err}}
	}

	payload, status, err := c.send(req)
	if err != nil {
		return nil, &StampError{ProvenanceError{Message: "acquiring stamp", Err: err}}
	}
	if status < 200 || status >= 300 {
		code, message := gatewayFailure(payload, status)
		return nil, &StampError{ProvenanceError{
			Code:    code,
			Message: fmt.Sprintf("acquiring stamp: %s", message),
		}}
	}

	var stamp AcquiredStamp
	if err := json.Unmarshal(payload, &stamp); err != nil {
		return nil, &StampError{ProvenanceError{Message: "decoding acquire response", Err: err}}
	}
	c.logger.Debug("stamp acquired", "batch_id", stamp.BatchID, "size", size, "fallback", stamp.FallbackUsed)
	return &stamp, nil
}

// --- request plumbing ---

// newRequest builds a request with the standard headers: the payment
// mode header on every call, a fresh request id, and an optional
// content type.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.gatewayURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if req.Header.Get(headerPaymentMode) == "" {
		req.Header.Set(headerPaymentMode, c.paymentMode)
	}
	req.Header.Set(headerRequestID, uuid.New().String())
	return req, nil
}

// send executes the request and reads the whole body. Transport errors
// come back as ConnectionError with code TIMEOUT or CONNECTION_FAILED;
// HTTP status classification is left to the caller.
func (c *Client) send(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, classifyTransportError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, classifyTransportError(err)
	}
	return payload, resp.StatusCode, nil
}

// getJSON performs a GET and decodes a 2xx response into out. Non-2xx
// responses become ConnectionError carrying the HTTP status and any
// gateway-supplied code.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return newConnectionError(CodeConnectionFailed, "building request", 0, err)
	}
	payload, status, err := c.send(req)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		code, message := gatewayFailure(payload, status)
		return newConnectionError(code, message, status, nil)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return newConnectionError(CodeConnectionFailed, "decoding response", status, err)
	}
	return nil
}

// classifyTransportError maps a transport failure to a ConnectionError,
// distinguishing deadline expiry from other failures.
func classifyTransportError(err error) *ConnectionError {
	code := CodeConnectionFailed
	message := "request failed"

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code, message = CodeTimeout, "request timed out"
	case errors.As(err, &netErr) && netErr.Timeout():
		code, message = CodeTimeout, "request timed out"
	}

	// http.Client wraps everything in *url.Error; unwrap it so the
	// chain stays inspectable without URL noise in every message.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return newConnectionError(code, message, 0, err)
}

// gatewayErrorBody is the lenient shape of gateway error responses.
type gatewayErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// gatewayFailure extracts a machine code and human message from a
// non-2xx response body, falling back to the HTTP status.
func gatewayFailure(payload []byte, status int) (code, message string) {
	var body gatewayErrorBody
	if err := json.Unmarshal(payload, &body); err == nil {
		switch {
		case body.Message != "":
			message = body.Message
		case body.Error != "":
			message = body.Error
		}
		code = body.Code
	}
	if message == "" {
		message = fmt.Sprintf("gateway returned HTTP %d", status)
	}
	if code == "" {
		code = CodeConnectionFailed
	}
	return code, message
}

// isNotFound reports whether err is a ConnectionError for HTTP 404.
func isNotFound(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr) && connErr.StatusCode == http.StatusNotFound
}

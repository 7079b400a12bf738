package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(append([]Option{WithGatewayURL(server.URL)}, opts...)...)
}

func TestNew_Defaults(t *testing.T) {
	c := New()
	assert.Equal(t, DefaultGatewayURL, c.GatewayURL())
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.Equal(t, DefaultPaymentMode, c.paymentMode)
}

func TestWithGatewayURL_TrimsTrailingSlash(t *testing.T) {
	c := New(WithGatewayURL("http://example.test/"))
	assert.Equal(t, "http://example.test", c.GatewayURL())
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	assert.True(t, c.Health(context.Background()))
}

func TestHealth_FailureIsFalseNotError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	assert.False(t, c.Health(context.Background()))

	// Unreachable gateway: still false, never a panic or error.
	dead := New(WithGatewayURL("http://127.0.0.1:1"), WithTimeout(200*time.Millisecond))
	assert.False(t, dead.Health(context.Background()))
}

func TestPaymentModeHeader(t *testing.T) {
	var got string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Payment-Mode")
		w.WriteHeader(http.StatusOK)
	}))
	c.Health(context.Background())
	assert.Equal(t, "free", got)
}

func TestPaymentModeHeader_Override(t *testing.T) {
	var got string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Payment-Mode")
		w.WriteHeader(http.StatusOK)
	}), WithPaymentMode("paid"))
	c.Health(context.Background())
	assert.Equal(t, "paid", got)
}

func TestRequestIDHeader(t *testing.T) {
	var got string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
	}))
	c.Health(context.Background())
	assert.NotEmpty(t, got)
}

func TestNotaryInfo(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/notary/info", r.URL.Path)
		w.Write([]byte(`{"enabled":true,"available":true,"address":"0xAbc"}`))
	}))
	info, err := c.NotaryInfo(context.Background())
	require.NoError(t, err)
	assert.True(t, info.Enabled)
	assert.True(t, info.Available)
	assert.Equal(t, "0xAbc", info.Address)
}

func TestNotaryInfo_404MeansDisabled(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	info, err := c.NotaryInfo(context.Background())
	require.NoError(t, err)
	assert.False(t, info.Enabled)
	assert.Empty(t, info.Address)
}

func TestNotaryInfo_OtherErrorPropagates(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusBadGateway)
	}))
	_, err := c.NotaryInfo(context.Background())
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, http.StatusBadGateway, connErr.StatusCode)
}

func TestPoolStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/pool/status", r.URL.Path)
		w.Write([]byte(`{"enabled":true,"available":{"small":5},"reserve":{"small":2}}`))
	}))
	status, err := c.PoolStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Enabled)
	assert.Equal(t, 5, status.Available["small"])
	assert.Equal(t, 2, status.Reserve["small"])
}

func TestPoolStatus_404MeansDisabled(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	status, err := c.PoolStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Enabled)
	assert.NotNil(t, status.Available)
	assert.NotNil(t, status.Reserve)
}

func TestAcquireStamp(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/pool/acquire", r.URL.Path)
		w.Write([]byte(`{"batch_id":"batch-1","depth":20,"size_name":"small","fallback_used":false}`))
	}))
	stamp, err := c.AcquireStamp(context.Background(), "small")
	require.NoError(t, err)
	assert.Equal(t, "batch-1", stamp.BatchID)
	assert.Equal(t, 20, stamp.Depth)
	assert.Equal(t, "small", stamp.SizeName)
}

func TestAcquireStamp_NonSuccessIsAlwaysStampError(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"message":"pool exhausted"}`))
		}))
		_, err := c.AcquireStamp(context.Background(), "small")
		var stampErr *StampError
		require.ErrorAs(t, err, &stampErr, "status %d", status)
		assert.Contains(t, stampErr.Error(), "pool exhausted")
	}
}

func TestAcquireStamp_TransportFailureIsStampError(t *testing.T) {
	c := New(WithGatewayURL("http://127.0.0.1:1"), WithTimeout(200*time.Millisecond))
	_, err := c.AcquireStamp(context.Background(), "small")
	var stampErr *StampError
	require.ErrorAs(t, err, &stampErr)
}

func TestTimeoutYieldsTimeoutCode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}), WithTimeout(50*time.Millisecond))

	_, err := c.NotaryInfo(context.Background())
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, CodeTimeout, connErr.Code)
}

func TestContextCancellation(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.NotaryInfo(ctx)
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, CodeTimeout, connErr.Code)
}

func TestErrorTaxonomyUnwrap(t *testing.T) {
	underlying := errors.New("root cause")
	err := &StampError{ProvenanceError{Message: "acquiring stamp", Err: underlying}}
	assert.ErrorIs(t, err, underlying)

	var provErr *ProvenanceError
	assert.False(t, errors.As(err, &provErr), "kinds are distinct types, not subtypes")
}

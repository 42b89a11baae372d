package telegram

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/dobryakk5/nsk/core/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func dialErr() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
}

func TestRetryTransportRetriesDialErrors(t *testing.T) {
	calls := 0
	rt := &retryTransport{maxRetries: 2, base: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls < 3 {
			return nil, dialErr()
		}
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "chat_id=1", string(body), "body is replayed on retry")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})}

	req, err := http.NewRequest(http.MethodPost, "https://api.telegram.org/botX/sendMessage", strings.NewReader("chat_id=1"))
	require.NoError(t, err)
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, calls)
}

func TestRetryTransportStopsOnPermanentError(t *testing.T) {
	calls := 0
	boom := errors.New("bad certificate")
	rt := &retryTransport{maxRetries: 3, base: roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, boom
	})}

	req, err := http.NewRequest(http.MethodGet, "https://api.telegram.org/botX/getMe", nil)
	require.NoError(t, err)
	_, err = rt.RoundTrip(req)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetryTransportGivesUp(t *testing.T) {
	calls := 0
	rt := &retryTransport{maxRetries: 1, base: roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, dialErr()
	})}

	req, err := http.NewRequest(http.MethodGet, "https://api.telegram.org/botX/getMe", nil)
	require.NoError(t, err)
	_, err = rt.RoundTrip(req)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryTransportRefusesConsumedBody(t *testing.T) {
	calls := 0
	rt := &retryTransport{maxRetries: 2, base: roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, dialErr()
	})}

	req, err := http.NewRequest(http.MethodPost, "https://api.telegram.org/botX/sendMessage", io.NopCloser(strings.NewReader("x")))
	require.NoError(t, err)
	req.GetBody = nil
	_, err = rt.RoundTrip(req)
	assert.ErrorIs(t, err, errBodyNotReplayable)
	assert.Equal(t, 1, calls)
}

func TestBuildHTTPClientTimeouts(t *testing.T) {
	c := BuildHTTPClient(coreconfig.HTTPConfig{}, 10*time.Second)
	assert.Equal(t, 30*time.Second, c.Timeout)
	rt := c.Transport.(*retryTransport)
	assert.Equal(t, 3, rt.maxRetries)
	assert.Equal(t, 2*time.Second, rt.backoff)

	c = BuildHTTPClient(coreconfig.HTTPConfig{Timeout: 5 * time.Second, Retries: 1}, 50*time.Second)
	assert.Equal(t, 60*time.Second, c.Timeout, "client outlives the long poll")
	assert.Equal(t, 1, c.Transport.(*retryTransport).maxRetries)
}

func TestMethodOf(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://api.telegram.org/bot123:secret/getUpdates", nil)
	require.NoError(t, err)
	assert.Equal(t, "getUpdates", methodOf(req))
}

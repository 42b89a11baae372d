package telegram

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	coreconfig "github.com/dobryakk5/nsk/core/config"
	"github.com/dobryakk5/nsk/core/logger"
	"github.com/dobryakk5/nsk/core/telegram/netutil"
)

const (
	defaultClientTimeout = 30 * time.Second
	defaultRetryAttempts = 3
	defaultRetryBackoff  = 2 * time.Second
)

// errBodyNotReplayable stops a retry when the request body was already consumed.
var errBodyNotReplayable = errors.New("telegram: request body cannot be replayed")

// BuildHTTPClient returns the Bot API client. Connection-level failures are
// retried inside the transport; API errors such as 429 are left to the sender.
// The client timeout must exceed the long poll timeout or getUpdates fails.
func BuildHTTPClient(cfg coreconfig.HTTPConfig, longPoll time.Duration) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	if floor := longPoll + 10*time.Second; timeout < floor {
		timeout = floor
	}
	retries := cfg.Retries
	if retries <= 0 {
		retries = defaultRetryAttempts
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &retryTransport{base: transport, maxRetries: retries, backoff: backoff},
	}
}

type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		r, err := t.rewind(req, attempt)
		if err != nil {
			return nil, errors.Join(lastErr, err)
		}
		resp, err := base.RoundTrip(r)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if attempt == t.maxRetries || !netutil.ShouldRetry(err) {
			break
		}

		delay := t.backoff * time.Duration(attempt+1)
		logger.Debug(req.Context(), "tg.http", "http.retry",
			slog.String("status", "retry"),
			slog.String("method", methodOf(req)),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", delay),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		if err := sleepCtx(req.Context(), delay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// rewind returns req for the first attempt and a clone with a fresh body after.
func (t *retryTransport) rewind(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 {
		return req, nil
	}
	clone := req.Clone(req.Context())
	switch {
	case req.GetBody != nil:
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	case req.Body != nil && req.Body != http.NoBody:
		return nil, errBodyNotReplayable
	}
	return clone, nil
}

// methodOf reports the Bot API method without the token-bearing path prefix.
func methodOf(req *http.Request) string {
	p := req.URL.Path
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[i+1:]
		}
	}
	return p
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

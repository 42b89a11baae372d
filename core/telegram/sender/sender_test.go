package sender

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastSender(retries int) *Sender {
	return New(Options{MaxRetries: retries, RetryBackoff: time.Millisecond, MaxDuration: time.Second})
}

func TestDoRetriesTransientErrors(t *testing.T) {
	s := fastSender(2)
	calls := 0
	err := s.Do(context.Background(), "send.text", "sendMessage", func() error {
		calls++
		if calls < 3 {
			return &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Zero(t, s.ErrorCount())
}

func TestDoStopsOnPermanentError(t *testing.T) {
	s := fastSender(3)
	calls := 0
	boom := errors.New("telegram: bad request: chat not found (400)")
	err := s.Do(context.Background(), "send.text", "sendMessage", func() error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint64(1), s.ErrorCount())
	assert.Equal(t, "http_4xx", classifyError(boom))
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	s := fastSender(1)
	calls := 0
	err := s.Do(context.Background(), "ack", "answerCallbackQuery", func() error {
		calls++
		return &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "dial", classifyError(err))
}

func TestDoHonoursCancelledContext(t *testing.T) {
	s := fastSender(5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := s.Do(ctx, "send.text", "sendMessage", func() error {
		calls++
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestSanitizeErrorMessageRedactsToken(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:AAbb-CC_dd/sendMessage": dial tcp`)
	assert.Equal(t, `Post "https://api.telegram.org/bot<redacted>/sendMessage": dial tcp`, sanitizeErrorMessage(err))
}

package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"hiring-backend/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

// RetryingClient retries a completion once on transient failures.
type RetryingClient struct {
	Base  Client
	Delay time.Duration
}

// WithRetry wraps base in a RetryingClient.
func WithRetry(base Client) Client {
	if base == nil {
		return nil
	}
	return RetryingClient{Base: base, Delay: retryBaseDelay}
}

func (r RetryingClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	out, err := r.Base.Complete(ctx, prompt)
	if err == nil || !ShouldRetry(err) {
		return out, err
	}

	telemetry.Warn("llm.retry", map[string]any{"attempt": 1, "error": err.Error()})
	select {
	case <-time.After(r.Delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return r.Base.Complete(ctx, prompt)
}

// ShouldRetry reports whether err looks transient.
func ShouldRetry(err error) bool {
	if err == nil || errors.Is(err, ErrNotConfigured) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "server_error") || strings.Contains(msg, "status 429") {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "unexpected eof") {
		return true
	}
	return false
}

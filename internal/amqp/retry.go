package amqp

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// exponentialBackoff returns the wait before reconnect attempt n,
// doubling from one second and capped at 30 seconds.
func exponentialBackoff(attempt int) time.Duration {
	const maxWait = 30 * time.Second
	if attempt > 10 {
		return maxWait
	}
	d := time.Second << uint(attempt)
	if d > maxWait {
		return maxWait
	}
	return d
}

// isConnectionError classifies errors that warrant a redial rather than
// a hard failure.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"connection refused",
		"connection closed",
		"connection reset",
		"channel/connection is not open",
		"broken pipe",
		"no route to host",
		"eof",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// ConsumeForever consumes sync messages, redialing with exponential
// backoff whenever the broker connection drops. It returns only on
// context cancellation or a non-connection error.
func ConsumeForever(ctx context.Context, url, exchange, queue string, handler func(context.Context, *TransactionMessage) error) error {
	attempt := 0
	for {
		client, err := NewClient(url, exchange, queue)
		if err == nil {
			attempt = 0
			err = client.Consume(ctx, handler)
			client.Close()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !isConnectionError(err) {
			return err
		}

		wait := exponentialBackoff(attempt)
		attempt++
		slog.WarnContext(ctx, "AMQP connection lost, reconnecting",
			"error", err, "attempt", attempt, "wait", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

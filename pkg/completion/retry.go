package completion

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/openai/openai-go"
)

// Schedule is the bounded retry policy for transient service failures.
// Zero values fall back to the documented defaults.
type Schedule struct {
	// MaxAttempts counts the first call too; 1 means no retry.
	MaxAttempts int
	// InitialDelay is the wait after the first failed attempt.
	InitialDelay time.Duration
	// MaxDelay caps the exponential growth.
	MaxDelay time.Duration
	// BackoffFactor multiplies the delay each further attempt.
	BackoffFactor float64
}

// DefaultSchedule is four attempts at 1s, 2s, 4s.
func DefaultSchedule() Schedule {
	return Schedule{
		MaxAttempts:   4,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
	}
}

func (s Schedule) withDefaults() Schedule {
	def := DefaultSchedule()
	if s.MaxAttempts < 1 {
		s.MaxAttempts = def.MaxAttempts
	}
	if s.InitialDelay <= 0 {
		s.InitialDelay = def.InitialDelay
	}
	if s.MaxDelay <= 0 {
		s.MaxDelay = def.MaxDelay
	}
	if s.BackoffFactor < 1 {
		s.BackoffFactor = def.BackoffFactor
	}
	return s
}

// delay returns the wait before attempt+1, exponential in the attempt
// number and capped at MaxDelay.
func (s Schedule) delay(attempt int) time.Duration {
	d := time.Duration(float64(s.InitialDelay) * math.Pow(s.BackoffFactor, float64(attempt-1)))
	if d > s.MaxDelay {
		return s.MaxDelay
	}
	return d
}

type failureKind int

const (
	failureRetryable failureKind = iota
	failureFatal
)

// classify separates failures the schedule may retry from those that
// must surface immediately. Credential problems and caller
// cancellation are fatal; rate limits, timeouts, server errors, and
// transport-level failures are transient. A deadline-exceeded error is
// the per-attempt request timeout firing, so it stays retryable — the
// retry loop checks the caller's context on its own.
func classify(err error) failureKind {
	switch {
	case errors.Is(err, ErrNoCredential), errors.Is(err, ErrCredentialRejected):
		return failureFatal
	case errors.Is(err, context.Canceled):
		return failureFatal
	case errors.Is(err, context.DeadlineExceeded):
		return failureRetryable
	case errors.Is(err, ErrEmptyCompletion):
		return failureRetryable
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case isAuthStatus(apiErr.StatusCode):
			return failureFatal
		case apiErr.StatusCode == http.StatusTooManyRequests,
			apiErr.StatusCode == http.StatusRequestTimeout,
			apiErr.StatusCode >= 500:
			return failureRetryable
		default:
			// Remaining 4xx: the request itself is bad, retrying the
			// same payload cannot help.
			return failureFatal
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return failureRetryable
	}

	// Unknown cause, usually a transport hiccup the SDK did not type.
	return failureRetryable
}

func isAuthStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

package fetch

import (
	"fmt"
	"math"
	"time"

	"github.com/smartcart/backend/internal/domain"
)

// RetryPolicy governs one logical fetch, which may issue several attempts
type RetryPolicy struct {
	Retries      int
	InitialDelay time.Duration
	Timeout      time.Duration
}

// DefaultRetryPolicy returns 7 attempts, 1s initial backoff and a 10s attempt timeout
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Retries:      7,
		InitialDelay: 1 * time.Second,
		Timeout:      10 * time.Second,
	}
}

// Validate checks that every field is usable
func (p RetryPolicy) Validate() error {
	if p.Retries < 1 {
		return fmt.Errorf("%w: retries must be at least 1, got %d", domain.ErrInvalidRequest, p.Retries)
	}
	if p.InitialDelay <= 0 {
		return fmt.Errorf("%w: initial delay must be positive, got %s", domain.ErrInvalidRequest, p.InitialDelay)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", domain.ErrInvalidRequest, p.Timeout)
	}
	return nil
}

// Backoff returns the wait after the zero-based attempt: InitialDelay * 2^attempt.
// No jitter. A doubling that would overflow saturates at the largest Duration.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt <= 0 || p.InitialDelay <= 0 {
		return p.InitialDelay
	}
	if attempt >= 63 || p.InitialDelay > time.Duration(math.MaxInt64>>attempt) {
		return time.Duration(math.MaxInt64)
	}
	return p.InitialDelay << attempt
}

package fetch

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/smartcart/backend/internal/domain"
)

// Kind classifies why an attempt failed
type Kind string

const (
	KindNone       Kind = "success"
	KindTimeout    Kind = "timeout"
	KindHTTPStatus Kind = "http_status"
	KindNetwork    Kind = "network"
	KindDecode     Kind = "decode"
	KindOther      Kind = "other"
)

// TimeoutError is returned when an attempt does not complete within the policy timeout
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fetch %s: timed out after %s", e.URL, e.Timeout)
}

// HTTPStatusError is returned when a response arrives with a non-2xx status
type HTTPStatusError struct {
	URL        string
	StatusCode int
	StatusText string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("fetch %s: HTTP %d %s", e.URL, e.StatusCode, e.StatusText)
}

// Is lets callers detect rate limiting with errors.Is(err, domain.ErrRateLimited)
func (e *HTTPStatusError) Is(target error) bool {
	return target == domain.ErrRateLimited && e.StatusCode == http.StatusTooManyRequests
}

// NetworkError is returned when the request cannot be sent or completed
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: network error: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a 2xx body is not valid JSON for the target
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("fetch %s: failed to decode response: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// KindOf reports the failure kind of err
func KindOf(err error) Kind {
	var (
		timeoutErr *TimeoutError
		statusErr  *HTTPStatusError
		networkErr *NetworkError
		decodeErr  *DecodeError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &timeoutErr):
		return KindTimeout
	case errors.As(err, &statusErr):
		return KindHTTPStatus
	case errors.As(err, &networkErr):
		return KindNetwork
	case errors.As(err, &decodeErr):
		return KindDecode
	default:
		return KindOther
	}
}

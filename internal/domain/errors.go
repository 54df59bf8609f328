package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product is not in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrRateLimited is returned when an upstream API answers 429
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrDebounced is returned when meal recommendations are requested again too soon
	ErrDebounced = errors.New("request skipped due to debounce")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUpstreamFailure is returned when the storefront API cannot be reached
	ErrUpstreamFailure = errors.New("upstream API request failed")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrUserExists is returned on signup with an email that is already registered
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is returned when no user has the given email
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when email or password do not match
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthorized is returned when a session is missing or expired
	ErrUnauthorized = errors.New("authentication required")
)

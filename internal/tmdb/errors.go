package tmdb

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a title doesn't exist in TMDB.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited is returned when the limiter refused the request.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("tmdb unavailable")
)

// RateLimitError is a retryable refusal by the local limiter.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }

// StatusError is a non-success response from TMDB.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "TMDB API error: " + e.Status
}

// temporary reports whether the request may succeed if retried.
func (e *StatusError) temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

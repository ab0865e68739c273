package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies why a provider call failed.
type Kind string

const (
	KindAuth        Kind = "auth"
	KindRateLimit   Kind = "rate_limit"
	KindTimeout     Kind = "timeout"
	KindUnavailable Kind = "unavailable"
)

// Error is the only error type adapters return. Err holds the underlying
// cause and may contain raw provider output; it must not be shown to callers.
type Error struct {
	Kind       Kind
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s %s (retry after %s): %v", e.Provider, e.Kind, e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a provider Error of the given kind.
func NewError(kind Kind, provider string, err error) *Error {
	return &Error{Kind: kind, Provider: provider, Err: err}
}

// NewRateLimitError creates a rate-limit Error. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *Error {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &Error{
		Kind:       KindRateLimit,
		Provider:   provider,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Err:        err,
	}
}

// ErrMissingCredential is wrapped in an auth Error when no key was supplied.
var ErrMissingCredential = errors.New("no credential supplied")

// MissingCredential returns the auth Error used when a provider has no key.
func MissingCredential(provider string) *Error {
	return NewError(KindAuth, provider, ErrMissingCredential)
}

// FromStatus classifies a non-2xx HTTP response.
func FromStatus(provider string, status int, header http.Header, err error) *Error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewError(KindAuth, provider, err)
	case status == http.StatusTooManyRequests:
		var retryAfter int
		if header != nil {
			retryAfter = ParseRetryAfterHeader(header.Get("Retry-After"))
		}
		return NewRateLimitError(provider, err, retryAfter)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return NewError(KindTimeout, provider, err)
	default:
		return NewError(KindUnavailable, provider, err)
	}
}

// FromTransport classifies an error raised before any HTTP status was received.
func FromTransport(provider string, err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindTimeout, provider, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewError(KindTimeout, provider, err)
	}
	return NewError(KindUnavailable, provider, err)
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

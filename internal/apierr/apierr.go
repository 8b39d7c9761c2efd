// Package apierr classifies provider failures so fallback chains can decide
// what to do with them: fail fast on configuration problems, move to the next
// source on auth/transient errors, surface not-found as an empty result.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration means a required credential or setting is missing.
	// Detected before any network attempt.
	KindConfiguration
	// KindAuth covers 401/403 responses: invalid key, expired token, quota.
	KindAuth
	// KindNotFound covers 404: surfaced as an empty result, never retried.
	KindNotFound
	// KindTransient covers timeouts, 429 and 5xx: eligible for fallback to
	// the next configured source, not retried within the same source.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "notfound"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error tags an underlying failure with a Kind and the operation that hit it.
type Error struct {
	Kind Kind
	Op   string // e.g. "youtube: list playlists"
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Configuration(op, missing string) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Err: fmt.Errorf("missing %s", missing)}
}

// FromStatus maps a non-2xx HTTP status onto the taxonomy.
func FromStatus(op string, status int, err error) *Error {
	kind := KindUnknown
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		kind = KindAuth
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusTooManyRequests,
		status == http.StatusRequestTimeout,
		status >= 500 && status <= 599:
		kind = KindTransient
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the Kind from an error chain, KindUnknown when untagged.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsConfiguration(err error) bool { return KindOf(err) == KindConfiguration }
func IsAuth(err error) bool          { return KindOf(err) == KindAuth }
func IsNotFound(err error) bool      { return KindOf(err) == KindNotFound }
func IsTransient(err error) bool     { return KindOf(err) == KindTransient }

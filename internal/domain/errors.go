package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest means the caller supplied neither a query nor a maker filter.
	ErrInvalidRequest = errors.New("either query or maker id must be provided")
	// ErrUpstreamUnavailable covers network failures, non-2xx responses and malformed bodies.
	ErrUpstreamUnavailable = errors.New("upstream catalog unavailable")
	// ErrSessionNotFound is returned for unknown or evicted search sessions.
	ErrSessionNotFound = errors.New("search session not found")
	// ErrNotAuthenticated is returned when no current user is attached to the request.
	ErrNotAuthenticated = errors.New("user must be signed in")
	// ErrItemNotFound is returned when a catalog has no record for the requested id.
	ErrItemNotFound = errors.New("item not found")
	// ErrExportUnavailable is returned when no object storage is configured.
	ErrExportUnavailable = errors.New("exhibition export is not configured")
)

// UpstreamError describes a failed call to one of the catalogs.
// StatusCode is zero when the failure happened before a response arrived.
type UpstreamError struct {
	Source     SourceTag
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s upstream error: status %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s upstream error: %v", e.Source, e.Err)
}

// Unwrap lets callers test upstream failures with errors.Is(err, ErrUpstreamUnavailable).
func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstreamUnavailable, e.Err}
}

// NewUpstreamError builds an UpstreamError, tolerating a nil cause.
func NewUpstreamError(source SourceTag, status int, err error) *UpstreamError {
	if err == nil {
		err = fmt.Errorf("unexpected status %d", status)
	}
	return &UpstreamError{Source: source, StatusCode: status, Err: err}
}

// WarningKind classifies a recoverable search problem.
type WarningKind string

const (
	// WarningPartialFailure means one of two active sources failed; the other's results are shown.
	WarningPartialFailure WarningKind = "partial_failure"
	// WarningSourceFailure means the only active source failed; the last good results remain.
	WarningSourceFailure WarningKind = "source_failure"
)

// Warning is attached to a search state after a recoverable failure.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Sources []SourceTag `json:"sources"`
	Message string      `json:"message"`
}

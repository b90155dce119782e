package domain

import (
	"errors"
	"fmt"
	"time"
)

// FailureKind classifies a scrape failure.
type FailureKind string

const (
	// KindConnection covers transport problems: unreachable host, timeout,
	// and any unsuccessful status other than 404.
	KindConnection FailureKind = "connection"
	// KindNoData is a 404 response, read as "unknown location" rather than
	// an outage. The reconciler absorbs it; it never surfaces as an update
	// failure.
	KindNoData FailureKind = "no_data"
	// KindParsing means the page structure violated the extraction rules,
	// i.e. the site markup changed.
	KindParsing FailureKind = "parsing"
)

// ScrapeError is the only error type the fetch-and-parse engine returns.
// Library-level causes are wrapped and never surface as their own types.
type ScrapeError struct {
	Kind  FailureKind
	cause error
}

// NewScrapeError wraps cause as a scrape failure of the given kind.
func NewScrapeError(kind FailureKind, cause error) *ScrapeError {
	return &ScrapeError{Kind: kind, cause: cause}
}

func (e *ScrapeError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("scrape failed (%s)", e.Kind)
	}
	return fmt.Sprintf("scrape failed (%s): %v", e.Kind, e.cause)
}

func (e *ScrapeError) Unwrap() error { return e.cause }

// KindOf extracts the failure kind from an engine error. Errors that are not
// ScrapeErrors (which the engine never returns) classify as connection
// failures, the conservative default.
func KindOf(err error) FailureKind {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindConnection
}

// TickStatus labels the outcome of one reconciler tick.
type TickStatus string

const (
	TickUpdated   TickStatus = "updated"   // new content replaced the last good record
	TickUnchanged TickStatus = "unchanged" // content identical to the last good record
	TickNoData    TickStatus = "no_data"   // page empty or 404; last good record kept
	TickError     TickStatus = "error"     // connection or parsing failure
)

// TickResult is the tagged result delivered to subscribers after each tick
// completes and state is committed.
type TickResult struct {
	Location string
	Status   TickStatus
	Record   *Record // published record after the tick; nil if none yet
	Err      error   // non-nil only when Status is TickError
	At       time.Time
}

// Snapshot is the pull-based view of a location's published state, read by
// subscribers after a tick notification.
type Snapshot struct {
	Location          string    `json:"location"`
	DisplayName       string    `json:"display_name"`
	Record            *Record   `json:"record,omitempty"`
	ConsecutiveErrors int       `json:"consecutive_errors"`
	LastTickError     bool      `json:"last_tick_error"`
	LastSuccessAt     time.Time `json:"last_success_at,omitzero"`
}

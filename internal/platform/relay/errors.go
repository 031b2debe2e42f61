package relay

import (
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrAllAttemptsFailed = crerr.New("all fetch attempts failed")
	ErrBodyTooLarge      = crerr.New("response body exceeds limit")
)

type AttemptKind string

const (
	KindTimeout     AttemptKind = "timeout"
	KindTransport   AttemptKind = "transport"
	KindStatus      AttemptKind = "status"
	KindCircuitOpen AttemptKind = "circuit_open"
	KindOversized   AttemptKind = "oversized"
)

// Attempt records why one endpoint did not produce a usable response.
type Attempt struct {
	Endpoint   string
	Kind       AttemptKind
	StatusCode int
	Err        error
}

func (a Attempt) String() string {
	switch a.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: http status %d", a.Endpoint, a.StatusCode)
	default:
		if a.Err == nil {
			return fmt.Sprintf("%s: %s", a.Endpoint, a.Kind)
		}
		return fmt.Sprintf("%s: %s: %v", a.Endpoint, a.Kind, a.Err)
	}
}

// ChainError aggregates every failed attempt of one Fetch call.
type ChainError struct {
	URL      string
	Attempts []Attempt
}

func (e *ChainError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("fetch %s: %v (%s)", e.URL, ErrAllAttemptsFailed, strings.Join(parts, "; "))
}

func (e *ChainError) Unwrap() error {
	return ErrAllAttemptsFailed
}

// LastStatus returns the HTTP status of the last attempt that got one, or 0.
func (e *ChainError) LastStatus() int {
	for i := len(e.Attempts) - 1; i >= 0; i-- {
		if e.Attempts[i].StatusCode != 0 {
			return e.Attempts[i].StatusCode
		}
	}
	return 0
}

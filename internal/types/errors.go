package types

import (
	"errors"
	"strings"
)

var (
	// ErrNoData means the provider answered but knows nothing about the request.
	ErrNoData = errors.New("no data available")
	// ErrRateLimited marks provider quota or throttling notices.
	ErrRateLimited = errors.New("provider rate limited")
	// ErrTransient covers timeouts, connection errors and unexpected HTTP statuses.
	ErrTransient = errors.New("transient provider failure")
	// ErrMalformed means the response could not be decoded into the expected shape.
	ErrMalformed = errors.New("malformed provider response")
	// ErrNoHeadlines is returned when the feed yields nothing to display.
	ErrNoHeadlines = errors.New("no headlines")
)

// SoftFailure is a syntactically valid provider response that signals
// unavailability, e.g. a quota notice inside an HTTP 200 body.
type SoftFailure struct {
	Provider string
	Message  string
}

func (e *SoftFailure) Error() string {
	return e.Provider + ": " + e.Message
}

func (e *SoftFailure) Unwrap() error {
	return ErrRateLimited
}

// NewSoftFailure builds a SoftFailure with whitespace collapsed in the message.
func NewSoftFailure(provider, message string) *SoftFailure {
	msg := strings.Join(strings.Fields(message), " ")
	if msg == "" {
		msg = "Rate limited or no data available."
	}
	return &SoftFailure{Provider: provider, Message: msg}
}

// AsSoftFailure reports whether err carries a SoftFailure.
func AsSoftFailure(err error) (*SoftFailure, bool) {
	var sf *SoftFailure
	if errors.As(err, &sf) {
		return sf, true
	}
	return nil, false
}

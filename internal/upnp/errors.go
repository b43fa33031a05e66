package upnp

import (
	"errors"
	"fmt"
)

// errEmptyDocument is returned when a description body contains no elements
var errEmptyDocument = errors.New("empty XML document")

// ErrorType represents the category of a resolution failure
type ErrorType int

const (
	// ErrTypeFetch indicates the description document could not be fetched
	// (network error or non-2xx response)
	ErrTypeFetch ErrorType = iota
	// ErrTypeParse indicates the description body was not parseable XML or
	// had no device node
	ErrTypeParse
	// ErrTypeURL indicates the control URL could not be resolved to an
	// absolute URL
	ErrTypeURL
	// ErrTypeNoService indicates the device exposes no AVTransport service.
	// This is the normal outcome for non-renderer devices, not a fault.
	ErrTypeNoService
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeFetch:
		return "Fetch Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeURL:
		return "URL Error"
	case ErrTypeNoService:
		return "No AVTransport Service"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ResolveError represents a failure to resolve one SSDP location into a
// usable device descriptor. All ResolveErrors are local to a single device:
// the discovery scan skips the device and keeps going.
type ResolveError struct {
	Type       ErrorType // Category of error
	Location   string    // Description URL being resolved
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ResolveError) Unwrap() error {
	return e.Err
}

func newFetchError(location, message string, statusCode int, err error) *ResolveError {
	return &ResolveError{
		Type:       ErrTypeFetch,
		Location:   location,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

func newParseError(location, message string, err error) *ResolveError {
	return &ResolveError{
		Type:     ErrTypeParse,
		Location: location,
		Message:  message,
		Err:      err,
	}
}

func newURLError(location, message string, err error) *ResolveError {
	return &ResolveError{
		Type:     ErrTypeURL,
		Location: location,
		Message:  message,
		Err:      err,
	}
}

func newNoServiceError(location string) *ResolveError {
	return &ResolveError{
		Type:     ErrTypeNoService,
		Location: location,
		Message:  "device exposes no AVTransport service",
	}
}

// IsNoService reports whether err is the expected no-AVTransport outcome,
// as opposed to an actual fetch/parse/URL failure.
func IsNoService(err error) bool {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Type == ErrTypeNoService
	}
	return false
}

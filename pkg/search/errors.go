package search

import (
	"errors"
	"fmt"
)

// Kind classifies orchestrator failures.
type Kind int

const (
	// CredentialMissing: no API key could be resolved. Never fatal.
	CredentialMissing Kind = iota + 1
	// ProviderCallFailed: network error, timeout, quota/auth or any other
	// provider side failure. Fatal to the caller only when DegradeOnFailure
	// is off.
	ProviderCallFailed
	// EmptyResponse: the provider answered without narrative text.
	EmptyResponse
	// MalformedGroundingData: citations with missing fields. Repaired in
	// place, never fatal.
	MalformedGroundingData
)

// Sentinel errors matching each Kind with errors.Is.
var (
	ErrCredentialMissing  = errors.New("api key not configured")
	ErrProviderCallFailed = errors.New("provider call failed")
	ErrEmptyResponse      = errors.New("provider returned no text")
	ErrMalformedGrounding = errors.New("malformed grounding data")
)

func (k Kind) String() string {
	switch k {
	case CredentialMissing:
		return "credential_missing"
	case ProviderCallFailed:
		return "provider_call_failed"
	case EmptyResponse:
		return "empty_response"
	case MalformedGroundingData:
		return "malformed_grounding_data"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case CredentialMissing:
		return ErrCredentialMissing
	case ProviderCallFailed:
		return ErrProviderCallFailed
	case EmptyResponse:
		return ErrEmptyResponse
	case MalformedGroundingData:
		return ErrMalformedGrounding
	default:
		return nil
	}
}

// SearchError is returned by SearchDeals when a failure is surfaced to the
// caller. errors.Is matches both the Kind sentinel and the wrapped cause.
type SearchError struct {
	Kind  Kind
	Query string
	Err   error
}

func (e *SearchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("searching %q: %s", e.Query, e.Kind)
	}
	return fmt.Sprintf("searching %q: %s: %v", e.Query, e.Kind, e.Err)
}

func (e *SearchError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

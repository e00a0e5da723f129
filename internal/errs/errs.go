// Package errs implements the core error taxonomy: a small set of kinds that
// tell callers how to react (retry, surface to the user, stop retrying) without
// depending on string matching or sentinel errors scattered across packages.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the purposes of HTTP status mapping and retry policy.
type Kind string

const (
	// InvalidRequest surfaces as 400 and is never retried by the system.
	InvalidRequest Kind = "invalid_request"
	// Unauthorized surfaces as 401.
	Unauthorized Kind = "unauthorized"
	// SignatureInvalid surfaces as 400; never recorded as a WebhookEvent.
	SignatureInvalid Kind = "signature_invalid"
	// NotFound surfaces as 404.
	NotFound Kind = "not_found"
	// Conflict means a unique constraint or FSM guard rejected the write;
	// the applier treats this as "already done" and returns success.
	Conflict Kind = "conflict"
	// ProviderUnavailable is transient and retried by the webhook retry
	// scheduler, or surfaced to the user for client-initiated flows.
	ProviderUnavailable Kind = "provider_unavailable"
	// ProviderPermanent is a non-retryable provider error (e.g. resource_missing).
	ProviderPermanent Kind = "provider_permanent"
	// Internal is unexpected; logged with request id, retried up to the webhook cap.
	Internal Kind = "internal"
)

// Error is the typed error all core packages should return across package
// boundaries. Construct with New/Wrap; inspect with Is/KindOf.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates a Kind-tagged error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags an existing error with a Kind, preserving it as the cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err, defaulting to Internal when err is not
// (or does not wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is (or wraps) an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether the webhook retry scheduler should back off and
// retry rather than dead-lettering immediately.
func Retryable(err error) bool {
	switch KindOf(err) {
	case ProviderUnavailable, Internal:
		return true
	default:
		return false
	}
}

// Package provider defines the shared failure taxonomy for external
// provider chains. Every failure in an embedding or reasoning backend is
// classified as one of these three, and all three mean the same thing to
// a chain: advance to the next link. None of them ever reach the caller
// of evaluate() or analyze().
package provider

import "errors"

var (
	// ErrUnavailable means a credential or endpoint is not configured.
	// The chain skips the link without a network call.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrRequestFailed means the transport or HTTP layer failed,
	// including per-attempt timeout expiry.
	ErrRequestFailed = errors.New("provider request failed")

	// ErrResponseMalformed means the provider answered with a payload
	// that does not parse or does not satisfy the expected schema.
	ErrResponseMalformed = errors.New("provider response malformed")
)

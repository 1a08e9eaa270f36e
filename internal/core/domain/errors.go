package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidImage indicates the caller supplied bytes that are not a decodable image.
	ErrInvalidImage = errors.New("invalid image")

	// ErrUnknownPolicy indicates an unrecognised pipeline execution policy.
	ErrUnknownPolicy = errors.New("unknown pipeline policy")

	// ErrUnknownDecoder indicates a decoder name with no registered builder.
	ErrUnknownDecoder = errors.New("unknown decoder")

	// Decoder Errors.

	// ErrDecoderUnavailable indicates a decoder lacks its native library,
	// API key or credentials. Such decoders return no codes.
	ErrDecoderUnavailable = errors.New("decoder unavailable")

	// ErrRetriesExhausted indicates every transport failed on every attempt.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrMalformedResponse indicates a cloud service returned an unparseable payload.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrLLMUnavailable indicates the vision LLM is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

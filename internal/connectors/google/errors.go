package google

import (
	"errors"
	"net/http"
	"strconv"

	"google.golang.org/api/googleapi"
)

// Common Google API errors.
var (
	// ErrBadRequest indicates the request was rejected as malformed.
	ErrBadRequest = errors.New("google: bad request")

	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions or a disabled API key.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("google: rate limit exceeded")

	// ErrUnavailable indicates a server-side failure worth retrying.
	ErrUnavailable = errors.New("google: service unavailable")
)

func statusCode(err error) (int, bool) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code, true
	}
	return 0, false
}

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	code, ok := statusCode(err)
	return ok && code == http.StatusUnauthorized
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	if errors.Is(err, ErrForbidden) {
		return true
	}
	code, ok := statusCode(err)
	return ok && code == http.StatusForbidden
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	code, ok := statusCode(err)
	return ok && code == http.StatusTooManyRequests
}

// IsRetryable returns true unless the error is a client-side rejection
// that will fail the same way on every attempt (400, 401, 403).
// Timeouts, transport errors, 429 and 5xx are all retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) {
		return false
	}
	code, ok := statusCode(err)
	if !ok {
		return true
	}
	switch code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return false
	default:
		return true
	}
}

// RetryAfter returns the Retry-After header of a 429 response in seconds, or 0.
func RetryAfter(err error) int {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil || secs < 0 {
		return 0
	}
	return secs
}

// WrapError converts a Google API error to a more specific error type.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	code, ok := statusCode(err)
	if !ok {
		return err
	}

	switch {
	case code == http.StatusBadRequest:
		return errors.Join(ErrBadRequest, err)
	case code == http.StatusUnauthorized:
		return errors.Join(ErrUnauthorized, err)
	case code == http.StatusForbidden:
		return errors.Join(ErrForbidden, err)
	case code == http.StatusTooManyRequests:
		return errors.Join(ErrRateLimited, err)
	case code >= http.StatusInternalServerError:
		return errors.Join(ErrUnavailable, err)
	default:
		return err
	}
}

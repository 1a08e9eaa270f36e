package google

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func apiErr(code int) error {
	return &googleapi.Error{Code: code, Message: http.StatusText(code)}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain transport error", errors.New("connection reset"), true},
		{"bad request", apiErr(http.StatusBadRequest), false},
		{"unauthorized", apiErr(http.StatusUnauthorized), false},
		{"forbidden", apiErr(http.StatusForbidden), false},
		{"rate limited", apiErr(http.StatusTooManyRequests), true},
		{"server error", apiErr(http.StatusInternalServerError), true},
		{"unavailable", apiErr(http.StatusServiceUnavailable), true},
		{"wrapped forbidden", WrapError(apiErr(http.StatusForbidden)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil))

	plain := errors.New("eof")
	assert.Equal(t, plain, WrapError(plain))

	assert.ErrorIs(t, WrapError(apiErr(http.StatusBadRequest)), ErrBadRequest)
	assert.ErrorIs(t, WrapError(apiErr(http.StatusUnauthorized)), ErrUnauthorized)
	assert.ErrorIs(t, WrapError(apiErr(http.StatusForbidden)), ErrForbidden)
	assert.ErrorIs(t, WrapError(apiErr(http.StatusTooManyRequests)), ErrRateLimited)
	assert.ErrorIs(t, WrapError(apiErr(http.StatusBadGateway)), ErrUnavailable)

	// The original status stays reachable.
	var gerr *googleapi.Error
	assert.ErrorAs(t, WrapError(apiErr(http.StatusForbidden)), &gerr)
	assert.Equal(t, http.StatusForbidden, gerr.Code)
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsUnauthorized(apiErr(http.StatusUnauthorized)))
	assert.True(t, IsUnauthorized(ErrUnauthorized))
	assert.False(t, IsUnauthorized(apiErr(http.StatusForbidden)))

	assert.True(t, IsForbidden(apiErr(http.StatusForbidden)))
	assert.True(t, IsRateLimited(apiErr(http.StatusTooManyRequests)))
	assert.False(t, IsRateLimited(errors.New("slow")))
}

func TestRetryAfter(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "3")

	assert.Equal(t, 3, RetryAfter(&googleapi.Error{Code: 429, Header: header}))
	assert.Equal(t, 0, RetryAfter(apiErr(429)))
	assert.Equal(t, 0, RetryAfter(errors.New("x")))

	header.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	assert.Equal(t, 0, RetryAfter(&googleapi.Error{Code: 429, Header: header}))
}

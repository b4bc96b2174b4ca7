package apperr

import (
	"errors"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error taxonomy for the model invocation path and the turn lifecycle.
// Handlers and services match on these sentinels with errors.Is.
var (
	// ErrInvalidRequest marks malformed turn input, rejected before any side effect.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidInput marks template input that failed local validation and
	// was never sent to the model provider.
	ErrInvalidInput = errors.New("invalid template input")

	// ErrNoCredentials means the key pool is empty; every model-dependent
	// operation fails until an operator fixes configuration.
	ErrNoCredentials = errors.New("no credentials available")

	// ErrAllQuotaExhausted means every credential in the pool was tried and
	// all failed with quota errors.
	ErrAllQuotaExhausted = errors.New("all credentials quota exhausted")

	// ErrEmptyOutput means the model produced no usable output, commonly
	// because safety filtering suppressed the response.
	ErrEmptyOutput = errors.New("model returned empty output")
)

// IsQuotaExhausted reports whether err is a provider quota/rate-limit signal.
// Quota errors are the only failure mode where a different credential might
// succeed, so they are the only class the key pool retries on.
func IsQuotaExhausted(err error) bool {
	if err == nil {
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == 429 {
		return true
	}
	if st, ok := status.FromError(err); ok && st.Code() == codes.ResourceExhausted {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource has been exhausted") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "429")
}

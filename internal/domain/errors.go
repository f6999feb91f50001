package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Category classifies a non-2xx upstream answer
type Category string

const (
	CategoryInvalidInput  Category = "invalid_input"
	CategoryAuth          Category = "auth_failure"
	CategoryRateLimit     Category = "rate_limited"
	CategoryQuotaExceeded Category = "quota_exceeded"
	CategoryServer        Category = "server_error"
	CategoryOther         Category = "upstream_error"
)

// Recovery actions offered to the user alongside a terminal error
const (
	ActionRetry = "retry"
	ActionToday = "today"
)

// ValidationError is raised for malformed or out-of-range input before any network call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UpstreamRequestError is a non-2xx answer from an upstream API
type UpstreamRequestError struct {
	Service    string
	StatusCode int
	Category   Category
	Message    string
}

func (e *UpstreamRequestError) Error() string {
	return e.Message
}

// UpstreamResponseError is a 2xx answer whose payload is missing required fields
type UpstreamResponseError struct {
	Service string
	Message string
}

func (e *UpstreamResponseError) Error() string {
	return e.Message
}

// NetworkError is a transport failure where no response was received
type NetworkError struct {
	Service string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Network error: Unable to connect to %s. Please check your internet connection.", e.Service)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// CategoryForStatus maps an HTTP status code onto an error category
func CategoryForStatus(status int) Category {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CategoryAuth
	case status == http.StatusTooManyRequests:
		return CategoryRateLimit
	case status >= 500:
		return CategoryServer
	case status >= 400:
		return CategoryInvalidInput
	default:
		return CategoryOther
	}
}

// IsRetryable reports whether err belongs to the network class:
// transport failures, 5xx answers and rate limiting.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var reqErr *UpstreamRequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode >= 500 || reqErr.Category == CategoryRateLimit
	}
	return false
}

// Code returns the stable machine-readable code for err
func Code(err error) string {
	var (
		valErr  *ValidationError
		reqErr  *UpstreamRequestError
		respErr *UpstreamResponseError
		netErr  *NetworkError
	)
	switch {
	case errors.As(err, &valErr):
		return "VALIDATION_ERROR"
	case errors.As(err, &reqErr):
		return "UPSTREAM_" + strings.ToUpper(string(reqErr.Category))
	case errors.As(err, &respErr):
		return "UPSTREAM_INVALID_RESPONSE"
	case errors.As(err, &netErr):
		return "NETWORK_ERROR"
	default:
		return "INTERNAL"
	}
}

// ToApiError converts err into the wire error, choosing the recovery action
func ToApiError(err error) *ApiError {
	if err == nil {
		return nil
	}
	apiErr := &ApiError{
		Code:      Code(err),
		Message:   err.Error(),
		Retryable: IsRetryable(err),
		Action:    ActionRetry,
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		apiErr.Action = ActionToday
	}
	return apiErr
}

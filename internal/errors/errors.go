// Package errors defines the error vocabulary of the HTTP API.
package errors

import (
	"fmt"
	"net/http"
)

// Code identifies a class of API error in responses.
type Code string

const (
	CodeNotFound       Code = "NOT_FOUND"
	CodeInvalidID      Code = "INVALID_ID"
	CodeInvalidRequest Code = "INVALID_REQUEST"
	CodeInternal       Code = "INTERNAL_ERROR"
	CodeRateLimited    Code = "RATE_LIMITED"
)

// APIError carries a machine-readable code alongside the message and
// the HTTP status to respond with.
type APIError struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrRateLimited is sent by the rate limiting middleware.
var ErrRateLimited = &APIError{
	Code:       CodeRateLimited,
	Message:    "Too many requests, please try again later",
	HTTPStatus: http.StatusTooManyRequests,
}

// NotFound reports a missing resource, e.g. NotFound("Book").
func NotFound(resource string) *APIError {
	return &APIError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// InvalidID rejects a malformed ID path parameter.
func InvalidID(paramName string) *APIError {
	return &APIError{
		Code:       CodeInvalidID,
		Message:    fmt.Sprintf("Invalid %s: must be a positive integer", paramName),
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidRequest rejects a malformed query parameter.
func InvalidRequest(message string) *APIError {
	return &APIError{
		Code:       CodeInvalidRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Internal wraps server-side failures behind a stable message.
func Internal(message string) *APIError {
	if message == "" {
		message = "Internal server error"
	}
	return &APIError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Package apierr defines the typed failure taxonomy for backend calls.
// Every error produced by the api package is an *Error so callers can
// branch on the failure class and status code without parsing strings.
package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies a failed backend call.
type Kind int

const (
	KindInvalidURL      Kind = iota // endpoint could not be resolved against the base URL
	KindNetwork                     // transport-level failure (DNS, timeout, reset)
	KindUnauthorized                // HTTP 401, regardless of body
	KindServer                      // any other non-2xx HTTP status
	KindDecoding                    // 2xx body did not match the expected shape
	KindInvalidResponse             // the exchange produced no usable HTTP response
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindServer:
		return "server"
	case KindDecoding:
		return "decoding"
	case KindInvalidResponse:
		return "invalid_response"
	}
	return "unknown"
}

// Error is the tagged union carried by every failed backend call.
// Code is only meaningful for KindServer and KindUnauthorized.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindServer:
		return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
	case e.cause != nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.cause)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.cause }

// InvalidURL reports an endpoint that could not be joined to the base URL.
func InvalidURL(endpoint string, cause error) *Error {
	return &Error{Kind: KindInvalidURL, Message: endpoint, cause: cause}
}

// Network wraps a transport-level failure.
func Network(cause error) *Error {
	return &Error{Kind: KindNetwork, cause: cause}
}

// Unauthorized reports an HTTP 401. The body is intentionally discarded.
func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Code: 401}
}

// Server reports a non-2xx, non-401 HTTP status with the body as text.
func Server(code int, body string) *Error {
	return &Error{Kind: KindServer, Code: code, Message: body}
}

// Decoding wraps a failure to parse a successful response body.
func Decoding(cause error) *Error {
	return &Error{Kind: KindDecoding, cause: cause}
}

// InvalidResponse reports an exchange that yielded no usable HTTP response.
func InvalidResponse(detail string) *Error {
	return &Error{Kind: KindInvalidResponse, Message: detail}
}

// KindOf extracts the failure class, or -1 if err is not an api error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return Kind(-1)
}

// IsStatus reports whether err is an api error carrying the given HTTP
// status code. Used by call sites that treat a 404 on optional data as
// an empty result rather than a failure.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return (apiErr.Kind == KindServer || apiErr.Kind == KindUnauthorized) && apiErr.Code == code
}

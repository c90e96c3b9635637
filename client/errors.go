package client

import (
	"fmt"

	"github.com/mytheresa/go-catalog/app/api"
)

// NetworkError means no usable response arrived: the request could not be
// sent, the connection failed, the context ended, or the body could not be read.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is any non-2xx response. Body is the raw response text; Detail
// is set when the body was a well-formed error envelope. The message always
// carries the status code and the raw body.
type ServerError struct {
	StatusCode int
	Body       string
	Detail     *api.ErrorDetail
}

func (e *ServerError) Error() string {
	if e.Detail != nil && e.Detail.Message != "" {
		return fmt.Sprintf("server returned %d: %s (body: %s)", e.StatusCode, e.Detail.Message, e.Body)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
}

// ParseError is a 2xx response whose body is not the expected envelope.
type ParseError struct {
	Body string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected response body: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

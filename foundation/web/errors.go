package web

import "net/http"

// Classified is implemented by errors that know how they should be rendered.
type Classified interface {
	error
	HTTPStatus() int
	ErrorKind() string
	ErrorCode() string
	PublicMessage() string
}

// Error is used to pass an error during the request through the application
// with web specific context.
type Error struct {
	Err    error
	Status int
	Kind   string
	Code   string
}

// NewRequestError wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status}
}

// NewValidationError reports a request that could not be decoded or failed
// validation.
func NewValidationError(err error) error {
	return &Error{Err: err, Status: http.StatusUnprocessableEntity, Kind: "validation", Code: "validation_failed"}
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) HTTPStatus() int {
	return e.Status
}

func (e *Error) ErrorKind() string {
	if e.Kind != "" {
		return e.Kind
	}
	switch e.Status {
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	}
	if e.Status >= http.StatusInternalServerError {
		return "internal"
	}
	return "validation"
}

func (e *Error) ErrorCode() string {
	if e.Code != "" {
		return e.Code
	}
	return "request_failed"
}

func (e *Error) PublicMessage() string {
	return e.Err.Error()
}

type errorBody struct {
	Status bool   `json:"status"`
	Kind   string `json:"kind"`
	Code   string `json:"code"`
	Error  string `json:"error"`
}

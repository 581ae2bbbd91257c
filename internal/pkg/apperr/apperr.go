// Package apperr holds the error taxonomy shared by the stores, the attendance
// engine and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind groups error codes by how a client should react to them.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindConflict        Kind = "conflict"
	KindNotFound        Kind = "not_found"
	KindUnauthenticated Kind = "unauthenticated"
	KindStore           Kind = "store"
)

// Code identifies a single failure case. Clients key off the code and the
// status, never the message.
type Code string

const (
	CodeValidation         Code = "validation_failed"
	CodeUsernameTaken      Code = "username_taken"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeEmployeeExists     Code = "employee_exists"
	CodeAlreadyPresent     Code = "already_present"
	CodeNotPresent         Code = "not_present"
	CodeEmployeeNotFound   Code = "employee_not_found"
	CodeUnauthenticated    Code = "unauthenticated"
	CodeStore              Code = "store_failure"
)

type class struct {
	kind   Kind
	status int
}

var classes = map[Code]class{
	CodeValidation:         {KindValidation, http.StatusUnprocessableEntity},
	CodeUsernameTaken:      {KindConflict, http.StatusBadRequest},
	CodeInvalidCredentials: {KindUnauthenticated, http.StatusBadRequest},
	CodeEmployeeExists:     {KindConflict, http.StatusBadRequest},
	CodeAlreadyPresent:     {KindConflict, http.StatusForbidden},
	CodeNotPresent:         {KindNotFound, http.StatusForbidden},
	CodeEmployeeNotFound:   {KindNotFound, http.StatusNotFound},
	CodeUnauthenticated:    {KindUnauthenticated, http.StatusUnauthorized},
	CodeStore:              {KindStore, http.StatusInternalServerError},
}

// Error is a classified failure.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match when target is an *Error with the same code, so that
// errors.Is(err, apperr.ErrAlreadyPresent) works on wrapped values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Kind returns the class of the error code.
func (e *Error) Kind() Kind {
	if c, ok := classes[e.Code]; ok {
		return c.kind
	}
	return KindStore
}

// HTTPStatus returns the status code the API responds with.
func (e *Error) HTTPStatus() int {
	if c, ok := classes[e.Code]; ok {
		return c.status
	}
	return http.StatusInternalServerError
}

// Sentinels for errors.Is comparisons.
var (
	ErrUsernameTaken      = &Error{Code: CodeUsernameTaken, Message: "username already exists"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrEmployeeExists     = &Error{Code: CodeEmployeeExists, Message: "employee already exists"}
	ErrAlreadyPresent     = &Error{Code: CodeAlreadyPresent, Message: "already entered"}
	ErrNotPresent         = &Error{Code: CodeNotPresent, Message: "hasn't entered"}
	ErrEmployeeNotFound   = &Error{Code: CodeEmployeeNotFound, Message: "employee not found"}
	ErrUnauthenticated    = &Error{Code: CodeUnauthenticated, Message: "could not validate credentials"}
)

// New builds an error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Validation reports malformed input rejected before the store is touched.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Unauthenticated wraps the reason a token was refused.
func Unauthenticated(err error) *Error {
	return &Error{Code: CodeUnauthenticated, Message: ErrUnauthenticated.Message, Err: err}
}

// Store wraps an infrastructure failure. Already classified errors pass
// through unchanged.
func Store(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Code: CodeStore, Message: msg, Err: err}
}

// ErrorKind, ErrorCode and PublicMessage let the web layer render the error
// without importing this package.
func (e *Error) ErrorKind() string { return string(e.Kind()) }

func (e *Error) ErrorCode() string { return string(e.Code) }

func (e *Error) PublicMessage() string { return e.Message }

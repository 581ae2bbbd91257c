package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("enter: %w", &Error{Code: CodeAlreadyPresent, Message: "custom"})

	assert.ErrorIs(t, wrapped, ErrAlreadyPresent)
	assert.NotErrorIs(t, wrapped, ErrNotPresent)
}

func TestError_StatusAndKind(t *testing.T) {
	tests := []struct {
		err    *Error
		kind   Kind
		status int
	}{
		{ErrUsernameTaken, KindConflict, http.StatusBadRequest},
		{ErrInvalidCredentials, KindUnauthenticated, http.StatusBadRequest},
		{ErrEmployeeExists, KindConflict, http.StatusBadRequest},
		{ErrAlreadyPresent, KindConflict, http.StatusForbidden},
		{ErrNotPresent, KindNotFound, http.StatusForbidden},
		{ErrEmployeeNotFound, KindNotFound, http.StatusNotFound},
		{ErrUnauthenticated, KindUnauthenticated, http.StatusUnauthorized},
		{Validation("bad"), KindValidation, http.StatusUnprocessableEntity},
		{&Error{Code: "unknown"}, KindStore, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind())
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
		})
	}
}

func TestStore(t *testing.T) {
	assert.NoError(t, Store(nil, "noop"))

	cause := errors.New("connection refused")
	err := Store(cause, "selecting employee")

	var ae *Error
	assert.True(t, errors.As(err, &ae))
	assert.Equal(t, CodeStore, ae.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "selecting employee: connection refused", err.Error())

	assert.Same(t, ErrNotPresent, Store(ErrNotPresent, "ignored"))
}

func TestUnauthenticated(t *testing.T) {
	err := Unauthenticated(errors.New("token expired"))

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Contains(t, err.Error(), "token expired")
}

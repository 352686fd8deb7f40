// Package apierrors defines the caller-facing error taxonomy of the accounts API.
package apierrors

import (
	"errors"
	"net/http"

	"github.com/dtroode/gophaccounts-server/internal/model"
)

// Kind tags an APIError variant.
type Kind string

const (
	KindBadRequest        Kind = "bad_request"
	KindValidation        Kind = "validation"
	KindUnauthorized      Kind = "unauthorized"
	KindMissingToken      Kind = "missing_token"
	KindInvalidToken      Kind = "invalid_token"
	KindAccountNotFound   Kind = "account_not_found"
	KindIncorrectPassword Kind = "incorrect_password"
	KindPasswordMismatch  Kind = "password_mismatch"
	KindNotFound          Kind = "not_found"
)

// Response names, as rendered in the "name" field of error bodies.
const (
	NameBadRequest   = "BadRequestError"
	NameUnauthorized = "UnauthorizedError"
	NameNotFound     = "NotFoundError"
)

// Default messages.
const (
	MsgBadRequest        = "You have made an invalid request"
	MsgUnauthorized      = "You need to be authenticated to use this resource"
	MsgNotFound          = "The resource you are trying to access does not exist"
	MsgMissingToken      = "Authorization token not found"
	MsgInvalidToken      = "Authorization token is invalid"
	MsgAccountNotFound   = "Account does not exist"
	MsgIncorrectPassword = "Incorrect Password"
	MsgPasswordMismatch  = "Passwords do not match"
)

// APIError is an error that is safe to show to API callers.
type APIError struct {
	Kind       Kind
	HTTPStatus int
	Name       string
	Message    string
	Items      []model.FieldError
}

func (e *APIError) Error() string {
	return e.Message
}

func newBadRequest(kind Kind, message string) *APIError {
	return &APIError{Kind: kind, HTTPStatus: http.StatusBadRequest, Name: NameBadRequest, Message: message}
}

func newUnauthorized(kind Kind, message string) *APIError {
	return &APIError{Kind: kind, HTTPStatus: http.StatusUnauthorized, Name: NameUnauthorized, Message: message}
}

// NewErrBadRequest returns a generic 400 error. An empty message uses the default.
func NewErrBadRequest(message string) *APIError {
	if message == "" {
		message = MsgBadRequest
	}
	return newBadRequest(KindBadRequest, message)
}

// NewErrValidation converts field violations into a 400 error with items.
func NewErrValidation(verr *model.ValidationError) *APIError {
	e := newBadRequest(KindValidation, MsgBadRequest)
	if verr != nil {
		e.Items = append([]model.FieldError(nil), verr.Fields...)
	}
	return e
}

// NewErrUnauthorized returns a generic 401 error. An empty message uses the default.
func NewErrUnauthorized(message string) *APIError {
	if message == "" {
		message = MsgUnauthorized
	}
	return newUnauthorized(KindUnauthorized, message)
}

func NewErrMissingAuthorizationToken() *APIError {
	return newUnauthorized(KindMissingToken, MsgMissingToken)
}

func NewErrInvalidAuthorizationToken() *APIError {
	return newUnauthorized(KindInvalidToken, MsgInvalidToken)
}

// NewErrAccountNotFound is raised by the exists guard on every account lookup.
func NewErrAccountNotFound() *APIError {
	return newUnauthorized(KindAccountNotFound, MsgAccountNotFound)
}

func NewErrIncorrectPassword() *APIError {
	return newBadRequest(KindIncorrectPassword, MsgIncorrectPassword)
}

func NewErrPasswordMismatch() *APIError {
	return newBadRequest(KindPasswordMismatch, MsgPasswordMismatch)
}

// NewErrNotFound returns a 404 error. An empty message uses the default.
func NewErrNotFound(message string) *APIError {
	if message == "" {
		message = MsgNotFound
	}
	return &APIError{Kind: KindNotFound, HTTPStatus: http.StatusNotFound, Name: NameNotFound, Message: message}
}

// Is reports whether err is an APIError of the given kind.
func Is(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Package apierr defines the structured error payload returned by every
// failing API operation. Codes form a closed set; each error carries the
// HTTP status it maps to so handlers stay free of status tables.
package apierr

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Code identifies the failure class of an API error.
type Code string

const (
	CodeResourceNotFound         Code = "ResourceNotFound"
	CodeResourceAlreadyExists    Code = "ResourceAlreadyExists"
	CodeInvalidConditionalHeader Code = "InvalidConditionalHeader"
	CodeInvalidJsonBody          Code = "InvalidJsonBody"
	CodeInvalidRouteValue        Code = "InvalidRouteValue"
	CodeETagMismatch             Code = "ETagMismatch"
)

// Error is the wire shape of a failed request:
// { "code": ..., "message": ..., "details": [...] }.
type Error struct {
	Code    Code     `json:"code"`
	Message string   `json:"message"`
	Details []*Error `json:"details,omitempty"`
	Status  int      `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code Code, status int, message string, details ...*Error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
		Status:  status,
	}
}

func NotFound(id uuid.UUID) *Error {
	return New(CodeResourceNotFound, http.StatusNotFound,
		fmt.Sprintf("order with id %s was not found", id))
}

func AlreadyExists(id uuid.UUID) *Error {
	return New(CodeResourceAlreadyExists, http.StatusConflict,
		fmt.Sprintf("an order with id %s already exists", id))
}

func ETagMismatch() *Error {
	return New(CodeETagMismatch, http.StatusPreconditionFailed,
		"the supplied If-Match value does not match the current ETag; fetch the latest revision and retry")
}

func InvalidConditionalHeader(status int, message string) *Error {
	return New(CodeInvalidConditionalHeader, status, message)
}

func InvalidJSONBody(message string, details ...*Error) *Error {
	return New(CodeInvalidJsonBody, http.StatusBadRequest, message, details...)
}

func InvalidRouteValue(message string) *Error {
	return New(CodeInvalidRouteValue, http.StatusBadRequest, message)
}

// Detail builds a nested validation entry. Nested entries reuse the
// parent's code on the wire, so only message varies.
func Detail(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Status: http.StatusBadRequest}
}

// Combine folds several independent request-parsing failures into one
// response. A single failure is returned verbatim; several collapse into
// a 400 carrying the first failure's code and every failure as a detail.
func Combine(errs []*Error) *Error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}

	return &Error{
		Code:    errs[0].Code,
		Message: "request validation failed",
		Details: errs,
		Status:  http.StatusBadRequest,
	}
}

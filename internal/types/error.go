package types

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	ValidationError      ErrorCode = "VALIDATION_ERROR"
	NotFound             ErrorCode = "NOT_FOUND"
	BadRequest           ErrorCode = "BAD_REQUEST"
	Unauthorized         ErrorCode = "UNAUTHORIZED"
	Forbidden            ErrorCode = "FORBIDDEN"
	Conflict             ErrorCode = "CONFLICT"
	Unprocessable        ErrorCode = "UNPROCESSABLE_ENTITY"
	ServiceUnavailable   ErrorCode = "SERVICE_UNAVAILABLE"
)

// Error is the error returned across the service and API boundary.
type Error struct {
	StatusCode int
	ErrorCode  ErrorCode
	Err        error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        errors.New(msg),
	}
}

func NewInternalServiceError(err error) *Error {
	return &Error{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  InternalServiceError,
		Err:        err,
	}
}

func NewValidationFailedError(err error) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  ValidationError,
		Err:        err,
	}
}

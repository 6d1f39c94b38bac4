package db

import (
	"errors"
	"fmt"
)

// DuplicateKeyError is returned when an insert collides with an existing
// document, e.g. an event id written twice.
type DuplicateKeyError struct {
	Key     string
	Message string
}

func (e *DuplicateKeyError) Error() string {
	if e.Key == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (key %s)", e.Message, e.Key)
}

func IsDuplicateKeyError(err error) bool {
	var target *DuplicateKeyError
	return errors.As(err, &target)
}

// NotFoundError is returned by single-document lookups. Collection scans
// return an empty slice instead.
type NotFoundError struct {
	Key     string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (key %s)", e.Message, e.Key)
}

func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

package domain

import (
	"errors"
	"fmt"
)

// Kind identifies the variant of an Error.
type Kind string

const (
	// KindNotFound means the requested entity does not exist.
	KindNotFound Kind = "not_found"

	// KindNetwork covers transport faults and non-2xx API responses.
	KindNetwork Kind = "network"

	// KindCache means the cache rejected a write or the persistent store
	// failed.
	KindCache Kind = "cache"

	// KindValidation means caller input failed a check.
	KindValidation Kind = "validation"
)

// Error is the storefront error type. Only the payload fields that belong to
// Kind are populated: StatusCode for KindNetwork (0 when the request never got
// a response), Entity and ID for KindNotFound.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Entity     string
	ID         string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindNotFound:
		msg = fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
	case KindNetwork:
		if e.StatusCode != 0 {
			msg = fmt.Sprintf("network error (status %d): %s", e.StatusCode, e.Message)
		} else {
			msg = fmt.Sprintf("network error: %s", e.Message)
		}
	case KindCache:
		msg = fmt.Sprintf("cache error: %s", e.Message)
	case KindValidation:
		msg = fmt.Sprintf("validation failed: %s", e.Message)
	default:
		msg = e.Message
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound returns a KindNotFound error for the given entity.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id}
}

// Network returns a KindNetwork error. statusCode is 0 for transport faults.
func Network(message string, statusCode int, err error) *Error {
	return &Error{Kind: KindNetwork, Message: message, StatusCode: statusCode, Err: err}
}

// Cache returns a KindCache error.
func Cache(message string, err error) *Error {
	return &Error{Kind: KindCache, Message: message, Err: err}
}

// Validation returns a KindValidation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// KindOf reports the Kind of the first *Error in err's chain.
// It returns "" when err carries no *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusCodeOf returns the HTTP status carried by a KindNetwork error, or 0.
func StatusCodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindNetwork {
		return e.StatusCode
	}
	return 0
}

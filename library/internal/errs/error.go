package errs

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrInvalidReference = errors.New("invalid reference")
	ErrInvalidState     = errors.New("invalid state")
	ErrDuplicateItem    = errors.New("duplicate item")
	ErrConflict         = errors.New("conflict")
	// ErrInUse is a conflict raised when a row is still referenced.
	ErrInUse       = errors.New("in use")
	ErrUnavailable = errors.New("service unavailable")
)

type Code string

const (
	CodeUnauthenticated  Code = "unauthenticated"
	CodeForbidden        Code = "forbidden"
	CodeNotFound         Code = "not_found"
	CodeValidation       Code = "validation"
	CodeInvalidReference Code = "invalid_reference"
	CodeInvalidState     Code = "invalid_state"
	CodeDuplicateItem    Code = "duplicate_item"
	CodeConflict         Code = "conflict"
	CodeUnavailable      Code = "unavailable"
	CodeInternal         Code = "internal"
)

// Response is the body of every failed request.
type Response struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

var classes = []struct {
	err    error
	code   Code
	status int
}{
	{ErrUnauthenticated, CodeUnauthenticated, http.StatusUnauthorized},
	{ErrForbidden, CodeForbidden, http.StatusForbidden},
	{ErrNotFound, CodeNotFound, http.StatusNotFound},
	{ErrValidation, CodeValidation, http.StatusBadRequest},
	{ErrInvalidReference, CodeInvalidReference, http.StatusBadRequest},
	{ErrInvalidState, CodeInvalidState, http.StatusConflict},
	{ErrDuplicateItem, CodeDuplicateItem, http.StatusConflict},
	{ErrConflict, CodeConflict, http.StatusConflict},
	{ErrInUse, CodeConflict, http.StatusConflict},
	{ErrUnavailable, CodeUnavailable, http.StatusServiceUnavailable},
}

// Classify maps err to its taxonomy code and HTTP status.
// Unknown errors are internal.
func Classify(err error) (Code, int) {
	for _, c := range classes {
		if errors.Is(err, c.err) {
			return c.code, c.status
		}
	}
	return CodeInternal, http.StatusInternalServerError
}

// ReferenceError names a referenced entity that does not exist.
type ReferenceError struct {
	Entity string
	ID     int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s with ID %d does not exist", e.Entity, e.ID)
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrInvalidReference
}

func BookReference(id int64) error {
	return &ReferenceError{Entity: "book", ID: id}
}

// Wrapf attaches a caller-facing message to a taxonomy sentinel.
func Wrapf(sentinel error, format string, args ...interface{}) error {
	return &classified{sentinel: sentinel, msg: fmt.Sprintf(format, args...)}
}

type classified struct {
	sentinel error
	msg      string
}

func (e *classified) Error() string { return e.msg }

func (e *classified) Unwrap() error { return e.sentinel }

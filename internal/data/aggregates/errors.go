package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorCode standardizes persistence failure semantics.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Op != "" && e.Message != "":
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
	case e.Op != "":
		return fmt.Sprintf("%s (%s)", e.Op, e.Code)
	case e.Message != "":
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

func wrap(code ErrorCode, op string, err error) error {
	return NewError(code, op, err.Error(), err)
}

// IsCode reports whether err (or anything it wraps) carries code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}

// IsRetryable is shorthand for IsCode(err, CodeRetryable).
func IsRetryable(err error) bool { return IsCode(err, CodeRetryable) }

// MapError classifies err. Errors already carrying a code pass through.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *Error
	if errors.As(err, &aggErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return wrap(CodeNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return wrap(CodeConflict, op, err)
	case errors.Is(err, context.Canceled):
		return wrap(CodeInternal, op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return wrap(CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return wrap(CodeConflict, op, err) // unique_violation
		case "23503":
			return wrap(CodePreconditionFailed, op, err) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return wrap(CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint failed"):
		return wrap(CodeConflict, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "database is locked"):
		return wrap(CodeRetryable, op, err)
	default:
		return wrap(CodeInternal, op, err)
	}
}

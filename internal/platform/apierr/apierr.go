package apierr

import "fmt"

type Error struct {
	Status int
	Code   string
	Err    error
	// Details is merged into the error envelope (e.g. per-field validation lists).
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

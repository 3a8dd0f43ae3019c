package errors

import (
	"fmt"
)

// Error carries an HTTP-like code alongside the message so callers can
// tell a validation failure from a permission failure without string
// matching.
type Error interface {
	error

	Code() int
	Message() string
	Cause() error
}

// DefaultCode is used when no enricher sets one.
var DefaultCode = 500

type appError struct {
	code  int
	msg   string
	cause *appError
}

func (err *appError) Error() string {
	if err.cause == nil {
		return err.msg
	}

	return fmt.Sprintf("%s: %v", err.msg, err.cause)
}

func (err *appError) Code() int {
	return err.code
}

func (err *appError) Message() string {
	return err.msg
}

func (err *appError) Cause() error {
	if err.cause == nil {
		return nil
	}
	return err.cause
}

func (err *appError) Unwrap() error {
	return err.Cause()
}

type ErrorEnricher func(error) error

func WithCode(code int) ErrorEnricher {
	return func(err error) error {
		switch err := err.(type) {
		case nil:
			return nil
		case *appError:
			err.code = code
			return err
		}

		return &appError{
			msg:  err.Error(),
			code: code,
		}
	}
}

func WithCause(cause error) ErrorEnricher {
	var appCause *appError
	switch cause := cause.(type) {
	case *appError:
		appCause = cause
	default:
		appCause = &appError{msg: cause.Error(), code: DefaultCode}
	}

	return func(err error) error {
		switch err := err.(type) {
		case nil:
			return nil
		case *appError:
			err.cause = appCause
			return err
		}

		return &appError{
			msg:   err.Error(),
			code:  appCause.code,
			cause: appCause,
		}
	}
}

func New(msg string, fs ...ErrorEnricher) error {
	var err error
	err = &appError{
		msg:  msg,
		code: DefaultCode,
	}

	for _, f := range fs {
		err = f(err)
	}

	return err
}

// Code extracts the code of an error, falling back on DefaultCode for
// errors built elsewhere.
func Code(err error) int {
	if err, ok := err.(Error); ok {
		return err.Code()
	}
	return DefaultCode
}

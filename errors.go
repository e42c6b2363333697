package tomlconfig

import (
	"errors"
	"strings"
)

// Sentinel errors for use with errors.Is.
var (
	ErrNotRegistered   = errors.New("type is not a registered config type")
	ErrUnsupportedType = errors.New("unsupported type")
	ErrUnknownKey      = errors.New("unknown key")
	ErrCoerce          = errors.New("cannot coerce value")
	ErrDecode          = errors.New("cannot decode document")
	ErrRequired        = errors.New("required field is empty")
	ErrValidation      = errors.New("validation failed")
)

// Error wraps configuration errors with field and file context. Field is a
// dotted document-key path ("limits.cpu"); File is the source document the
// error came from, when it came from one.
type Error struct {
	File  string
	Field string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("tomlconfig: ")
	if e.File != "" {
		b.WriteString("in file ")
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// fieldError prefixes err with a document-key segment, extending the dotted
// path if err already carries one.
func fieldError(key string, err error) error {
	var cerr *Error
	if errors.As(err, &cerr) && cerr.File == "" {
		field := key
		if cerr.Field != "" {
			field = key + "." + cerr.Field
		}
		return &Error{Field: field, Err: cerr.Err}
	}
	return &Error{Field: key, Err: err}
}

// fileError annotates err with the source document path. Field context, if
// any, is preserved inside.
func fileError(path string, err error) error {
	var cerr *Error
	if errors.As(err, &cerr) && cerr.File == "" {
		return &Error{File: path, Field: cerr.Field, Err: cerr.Err}
	}
	return &Error{File: path, Err: err}
}

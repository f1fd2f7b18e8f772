package rdfa

import (
	"errors"
	"fmt"
	"io"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeInvalidMaxDepth indicates a non-positive MaxDepth option.
	ErrCodeInvalidMaxDepth ErrorCode = "INVALID_MAX_DEPTH"
	// ErrCodeUnsupportedFormat indicates an unsupported input format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeIOError indicates an I/O error.
	ErrCodeIOError ErrorCode = "IO_ERROR"
)

var (
	// ErrInvalidMaxDepth indicates a non-positive MaxDepth option. It is
	// returned before any output is written.
	ErrInvalidMaxDepth = errors.New("rdfa: max depth must be greater than zero")
	// ErrUnsupportedFormat indicates an unsupported input format.
	ErrUnsupportedFormat = errors.New("rdfa: unsupported input format")
)

// Code returns the error code for an error. It returns the empty string
// for nil errors and for io.EOF, which is not an error condition.
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}
	switch {
	case errors.Is(err, ErrInvalidMaxDepth):
		return ErrCodeInvalidMaxDepth
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return ErrCodeParseError
	}
	return ErrCodeIOError
}

// ParseError provides structured context for input parse failures.
type ParseError struct {
	Format    string // Format name (e.g., "ntriples")
	Statement string // Offending statement or input excerpt
	Line      int    // 1-based line number (0 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	msg := e.Format
	if e.Line > 0 {
		msg = fmt.Sprintf("%s:%d", msg, e.Line)
	}
	msg += ": " + e.Err.Error()
	if e.Statement != "" {
		excerpt := e.Statement
		const maxExcerptLen = 80
		if len(excerpt) > maxExcerptLen {
			excerpt = excerpt[:maxExcerptLen] + "..."
		}
		msg += "\n  " + excerpt
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// wrapParseError adds format/statement/line context to a parse error.
func wrapParseError(format, statement string, line int, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Statement: statement, Line: line, Err: err}
}

package xopen

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// InvalidTargetError is returned when a target cannot be opened with the requested mode, such as opening a subprocess
// command or standard stream in append mode, or reading a path that does not exist.
type InvalidTargetError struct {
	Target string
	Reason string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf(`invalid target "%s": %s`, e.Target, e.Reason)
}

// UnknownFormatError is returned when an explicit compression format override does not name a registered format.
type UnknownFormatError struct {
	Name string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown compression format: %s", e.Name)
}

// UnsupportedFormatError is returned when a format was recognised but no usable engine exists for it: no external
// program is available on this system, and the format has no native codec.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("no available engine for compression format: %s", e.Format)
}

// OpenError is returned when the underlying resource could not be opened.
type OpenError struct {
	Target string
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf(`open "%s" error: %v`, e.Target, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// ProcessError is returned when a spawned program exits with nonzero status. Stderr contains the program's captured
// standard error output, truncated if the program was particularly chatty.
//
// For read handles the error surfaces at Close at the latest; for write handles it surfaces at the next Write or at
// Close, whichever happens first, because compression programs may buffer input before failing.
type ProcessError struct {
	Argv     []string
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", strings.Join(e.Argv, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// EncodingError is returned when text-mode decoding or encoding fails at the offending Read or Write call.
type EncodingError struct {
	Encoding string
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s encoding error: %v", e.Encoding, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// CloseError aggregates one or more errors encountered while releasing a handle or a group of handles. Every resource
// is released even when an earlier release fails; no failure masks a later one.
type CloseError struct {
	err *multierror.Error
}

func newCloseError(err *multierror.Error) error {
	if err == nil || len(err.Errors) == 0 {
		return nil
	}
	return &CloseError{err: err}
}

func (e *CloseError) Error() string {
	return e.err.Error()
}

// Errors returns every failure collected during the close.
func (e *CloseError) Errors() []error {
	return e.err.Errors
}

func (e *CloseError) Unwrap() error {
	return e.err
}

package xopen

import (
	"errors"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
)

var (
	errNotReadable = errors.New("handle is not open for reading")
	errNotWritable = errors.New("handle is not open for writing")
)

// Handle is the uniform stream returned by Open regardless of target kind and engine choice.
//
// A Handle owns exactly one underlying OS-level stream plus, when an external program was spawned, that subprocess's
// lifecycle. Close releases everything exactly once, leaf-first: codec and text wrappers, then the underlying stream,
// then (for subprocess-backed handles) the remaining pipe ends followed by a blocking wait that surfaces the
// program's exit status. Closing an already-closed Handle is a no-op.
//
// A Handle is not safe for concurrent use; callers needing that must serialise externally.
type Handle struct {
	name     string
	format   *Format
	r        io.Reader
	w        io.Writer
	closers  []io.Closer
	proc     *process
	procDone bool
	closed   bool
}

var _ io.ReadWriteCloser = &Handle{}

// Name returns the display name of the target this handle was opened from.
func (h *Handle) Name() string {
	return h.name
}

// Format returns the compression format in effect for this handle, or nil if the stream is uncompressed.
func (h *Handle) Format() *Format {
	return h.format
}

func (h *Handle) Read(p []byte) (int, error) {
	if h.closed {
		return 0, os.ErrClosed
	}
	if h.r == nil {
		return 0, errNotReadable
	}

	return h.r.Read(p)
}

func (h *Handle) Write(p []byte) (int, error) {
	if h.closed {
		return 0, os.ErrClosed
	}
	if h.w == nil {
		return 0, errNotWritable
	}

	n, err := h.w.Write(p)
	if err != nil && h.proc != nil && !h.procDone {
		// a broken pipe here usually means the program already died; reap it now so the caller sees the
		// program's own complaint rather than an opaque EPIPE.
		h.procDone = true
		var pe *ProcessError
		if cerr := h.proc.close(); errors.As(cerr, &pe) {
			return n, pe
		}
	}

	return n, err
}

// Close releases the handle and every resource it owns. All release failures are collected; a failure early in the
// walk never masks a later one. The aggregate is reported as a CloseError. Double close is a no-op.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	var result *multierror.Error
	for _, c := range h.closers {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if h.proc != nil && !h.procDone {
		h.procDone = true
		if err := h.proc.close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return newCloseError(result)
}

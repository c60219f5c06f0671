// Package xopen provides transparent read and write access to compressed streams across many kinds of targets:
// filesystem paths, URLs, standard streams, subprocess pipelines, in-memory buffers, and already-open stream objects.
//
// The compression format is detected from magic bytes where the stream can be peeked, falling back to the file name
// extension, and can always be overridden per call. Compression and decompression are performed by an external
// program (gzip, zstd, xz, ...) when one is installed, and by a native Go codec otherwise; either way the caller sees
// a plain io.ReadWriteCloser.
//
//	h, err := xopen.Open("data.txt.gz")
//	if err != nil {
//		...
//	}
//	defer h.Close()
//	// h reads decompressed bytes.
package xopen

import (
	"fmt"
	"io"
	"net/http"
	"os"
)

// Opener opens targets for transparent compressed access. The zero value is not usable; use New. An Opener is safe
// for concurrent use.
type Opener struct {
	// Registry is the set of known compression formats. Default DefaultRegistry.
	Registry *Registry

	// Programs caches availability lookups of external compression programs.
	Programs *ProgramCache

	// PreferNative inverts the default engine preference so native codecs win over available external programs.
	PreferNative bool

	// HTTPClient is used for http and https read targets. Default http.DefaultClient.
	HTTPClient *http.Client

	// S3 is used for s3 targets. Opening an s3 URL without it fails.
	S3 S3Client

	// Stdin and Stdout back the Std target. Defaults are the process's own standard streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// New creates an Opener.
func New(optFns ...func(*Opener)) *Opener {
	o := &Opener{
		Registry: DefaultRegistry(),
		Programs: NewProgramCache(),
	}
	for _, fn := range optFns {
		fn(o)
	}
	if o.Registry == nil {
		o.Registry = DefaultRegistry()
	}
	if o.Programs == nil {
		o.Programs = NewProgramCache()
	}

	return o
}

func (o *Opener) stdin() io.Reader {
	if o.Stdin != nil {
		return o.Stdin
	}
	return os.Stdin
}

func (o *Opener) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}

var defaultOpener = New()

// Open opens a target using the default Opener. See Opener.Open.
func Open(target any, optFns ...func(*Options)) (*Handle, error) {
	return defaultOpener.Open(target, optFns...)
}

// ReadAll opens a target for reading, reads it to EOF, and closes it.
func ReadAll(target any, optFns ...func(*Options)) ([]byte, error) {
	return defaultOpener.ReadAll(target, optFns...)
}

// WriteAll opens a target for writing, writes data, and closes it.
func WriteAll(target any, data []byte, optFns ...func(*Options)) error {
	return defaultOpener.WriteAll(target, data, optFns...)
}

// ReadAll opens the target for reading, reads it to EOF, and closes it. The Mode option is forced to Read.
func (o *Opener) ReadAll(target any, optFns ...func(*Options)) ([]byte, error) {
	h, err := o.Open(target, append(optFns, func(opts *Options) {
		opts.Mode = Read
	})...)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(h)
	if cerr := h.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf(`read all from "%s" error: %w`, h.Name(), err)
	}

	return data, nil
}

// WriteAll opens the target for writing, writes data, and closes it. The Mode option defaults to Write but Append is
// honoured.
func (o *Opener) WriteAll(target any, data []byte, optFns ...func(*Options)) error {
	h, err := o.Open(target, append([]func(*Options){func(opts *Options) {
		opts.Mode = Write
	}}, optFns...)...)
	if err != nil {
		return err
	}
	if _, err = h.Write(data); err != nil {
		_ = h.Close()
		return fmt.Errorf(`write all to "%s" error: %w`, h.Name(), err)
	}

	return h.Close()
}

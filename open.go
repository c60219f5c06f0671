package xopen

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
)

// Mode is the access mode of an open request.
type Mode int

const (
	Read Mode = iota
	Write
	Append
)

// Compression override tokens for Options.Compression. Any other value must name a registered format and is matched
// case-insensitively; an unrecognised name is a hard UnknownFormatError.
const (
	// Auto detects the compression format from magic bytes, falling back to the file name extension.
	Auto = "auto"
	// None disables compression handling entirely; the raw bytes pass through.
	None = "none"
)

// Options customises a single Open call.
type Options struct {
	// Mode is the access mode. Default Read.
	Mode Mode

	// Compression is Auto (default), None, or the name of a registered format.
	Compression string

	// Level is the compression level for write mode, 0 for the engine default.
	Level int

	// Text enables text mode: the handle carries UTF-8 text with "\n" line separators and the underlying stream
	// carries Encoding and LineSeparator.
	Text bool

	// Encoding is the IANA character set name for text mode. Default UTF-8.
	Encoding string

	// LineSeparator is the underlying stream's line separator for text mode. Default "\n".
	LineSeparator string

	// Header, if not nil, is written immediately after a write-mode open succeeds, before Open returns.
	Header []byte

	// NoPrograms forces native codecs even when an external program is available.
	NoPrograms bool

	// Context is used for subprocess and network lifetimes. Default context.Background.
	Context context.Context
}

type engineKind int

const (
	engineNone engineKind = iota
	engineNative
	engineProgram
)

// engineChoice is the decision of which mechanism performs (de)compression for one open call. It is a pure function
// of the format, a program-availability snapshot, and the caller's overrides.
type engineChoice struct {
	kind    engineKind
	format  *Format
	program string
}

// chooseEngine prefers an external program when one is available because the pipe costs less than doing CPU-bound
// (de)compression in process, unless the opener or the call says otherwise.
func chooseEngine(f *Format, programs *ProgramCache, preferNative, noPrograms bool) (engineChoice, error) {
	if f == nil {
		return engineChoice{kind: engineNone}, nil
	}

	native := f.NewCodec != nil
	if !noPrograms && !(preferNative && native) {
		for _, name := range f.Programs {
			if path, ok := programs.Find(name); ok {
				return engineChoice{kind: engineProgram, format: f, program: path}, nil
			}
		}
	}

	if native {
		return engineChoice{kind: engineNative, format: f}, nil
	}

	return engineChoice{}, &UnsupportedFormatError{Format: f.Name}
}

// Open opens the given target for transparent compressed access and returns a uniform, lifecycle-managed Handle.
//
// The target may be a filesystem path, a URL (http, https, s3), the Std sentinel for the standard streams, a string
// starting with CommandMarker to spawn a subprocess pipeline stage, a *Buffer, or any already-open io.Reader or
// io.Writer.
func (o *Opener) Open(target any, optFns ...func(*Options)) (*Handle, error) {
	opts := &Options{
		Compression:   Auto,
		LineSeparator: defaultLineSeparator,
		Context:       context.Background(),
	}
	for _, fn := range optFns {
		fn(opts)
	}
	if opts.LineSeparator == "" {
		opts.LineSeparator = defaultLineSeparator
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Compression == "" {
		opts.Compression = Auto
	}

	t, err := resolve(target, opts)
	if err != nil {
		return nil, err
	}

	if opts.Mode == Read {
		return o.openRead(t, opts)
	}

	return o.openWrite(t, opts)
}

func (o *Opener) openRead(t *target, opts *Options) (h *Handle, err error) {
	var (
		raw     io.Reader
		rawCls  io.Closer
		rawProc *process
	)

	switch t.kind {
	case targetPath:
		f, err := os.Open(t.path)
		if err != nil {
			return nil, &OpenError{Target: t.name, Err: err}
		}
		raw, rawCls = f, f

	case targetStd:
		raw = o.stdin()

	case targetStream:
		// pre-opened stream objects remain owned by the caller.
		raw = t.reader

	case targetBuffer:
		raw = bytes.NewReader(t.buffer.Bytes())

	case targetURL:
		rc, err := o.openURLRead(opts.Context, t)
		if err != nil {
			return nil, err
		}
		raw, rawCls = rc, rc

	case targetCommand:
		p, err := startProcess(opts.Context, t.argv, inheritStdio(), pipeStdio())
		if err != nil {
			return nil, &OpenError{Target: t.name, Err: err}
		}
		raw, rawProc = p.stdout, p
	}

	// on any failure below, release everything acquired so far.
	fail := func(err error) (*Handle, error) {
		if rawCls != nil {
			_ = rawCls.Close()
		}
		if rawProc != nil {
			_ = rawProc.close()
		}
		return nil, err
	}

	// the buffered reader becomes the stream, so peeked magic bytes are never consumed from the caller's view.
	br := bufio.NewReader(raw)
	f, err := o.detectRead(br, t, opts)
	if err != nil {
		return fail(err)
	}

	choice, err := chooseEngine(f, o.Programs, o.PreferNative, opts.NoPrograms)
	if err != nil {
		return fail(err)
	}

	h = &Handle{name: t.name, format: choice.format, proc: rawProc}

	switch choice.kind {
	case engineNone:
		h.r = br
		if rawCls != nil {
			h.closers = append(h.closers, rawCls)
		}

	case engineNative:
		dec, err := choice.format.NewCodec(0).NewDecoder(br)
		if err != nil {
			return fail(&OpenError{Target: t.name, Err: err})
		}
		h.r = dec
		h.closers = append(h.closers, dec)
		if rawCls != nil {
			h.closers = append(h.closers, rawCls)
		}

	case engineProgram:
		// the program reads compressed bytes from the underlying stream; the caller reads plain bytes from the
		// program's stdout. The underlying stream (and any upstream subprocess) is released after the program
		// exits.
		var upstream io.Closer = rawCls
		if rawProc != nil {
			upstream = procCloser{rawProc}
		}
		p, err := startProcess(opts.Context, choice.format.decompressArgs(choice.program), connectReader(br, upstream), pipeStdio())
		if err != nil {
			return fail(&OpenError{Target: t.name, Err: err})
		}
		h.r = p.stdout
		h.proc = p
	}

	if opts.Text {
		tr, err := newTextReader(h.r, opts.Encoding, opts.LineSeparator)
		if err != nil {
			_ = h.Close()
			return nil, err
		}
		h.r = tr
	}

	return h, nil
}

// detectRead applies the format resolution order for readable targets: explicit override first, then magic bytes from
// a bounded peek, then the file name extension, and finally no compression at all.
func (o *Opener) detectRead(br *bufio.Reader, t *target, opts *Options) (*Format, error) {
	switch opts.Compression {
	case None:
		return nil, nil
	case Auto:
	default:
		return o.Registry.Get(opts.Compression)
	}

	peek, _ := br.Peek(o.Registry.MaxMagicLen())
	if f := o.Registry.Detect(peek); f != nil {
		return f, nil
	}

	return o.Registry.DetectName(detectName(t)), nil
}

func (o *Opener) openWrite(t *target, opts *Options) (h *Handle, err error) {
	var (
		raw     io.Writer
		rawCls  io.Closer
		rawProc *process
	)

	switch t.kind {
	case targetPath:
		flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		if opts.Mode == Append {
			flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		}
		f, err := os.OpenFile(t.path, flag, 0666)
		if err != nil {
			return nil, &OpenError{Target: t.name, Err: err}
		}
		raw, rawCls = f, f

	case targetStd:
		raw = o.stdout()

	case targetStream:
		raw = t.writer
		if opts.Mode == Append {
			// resolveStream guaranteed the seeker capability.
			if _, err := t.writer.(io.Seeker).Seek(0, io.SeekEnd); err != nil {
				return nil, &OpenError{Target: t.name, Err: err}
			}
		}

	case targetBuffer:
		if opts.Mode == Write {
			t.buffer.Reset()
		}
		raw = &t.buffer.Buffer

	case targetURL:
		wc, err := o.openURLWrite(opts.Context, t)
		if err != nil {
			return nil, err
		}
		raw, rawCls = wc, wc

	case targetCommand:
		p, err := startProcess(opts.Context, t.argv, pipeStdio(), inheritStdio())
		if err != nil {
			return nil, &OpenError{Target: t.name, Err: err}
		}
		raw, rawProc = p.stdin, p
	}

	fail := func(err error) (*Handle, error) {
		if rawCls != nil {
			_ = rawCls.Close()
		}
		if rawProc != nil {
			_ = rawProc.close()
		}
		return nil, err
	}

	f, err := o.detectWrite(t, opts)
	if err != nil {
		return fail(err)
	}

	choice, err := chooseEngine(f, o.Programs, o.PreferNative, opts.NoPrograms)
	if err != nil {
		return fail(err)
	}

	h = &Handle{name: t.name, format: choice.format, proc: rawProc}

	switch choice.kind {
	case engineNone:
		h.w = raw
		if rawCls != nil {
			h.closers = append(h.closers, rawCls)
		}

	case engineNative:
		enc, err := choice.format.NewCodec(opts.Level).NewEncoder(raw)
		if err != nil {
			return fail(&OpenError{Target: t.name, Err: err})
		}
		h.w = enc
		h.closers = append(h.closers, enc)
		if rawCls != nil {
			h.closers = append(h.closers, rawCls)
		}

	case engineProgram:
		// the caller writes plain bytes into the program's stdin; the program writes compressed bytes to the
		// underlying stream, which is released after the program exits.
		var downstream io.Closer = rawCls
		if rawProc != nil {
			downstream = procCloser{rawProc}
		}
		p, err := startProcess(opts.Context, choice.format.compressArgs(choice.program, opts.Level), pipeStdio(), connectWriter(raw, downstream))
		if err != nil {
			return fail(&OpenError{Target: t.name, Err: err})
		}
		h.w = p.stdin
		h.proc = p
	}

	if opts.Text {
		tw, err := newTextWriter(h.w, opts.Encoding, opts.LineSeparator)
		if err != nil {
			_ = h.Close()
			return nil, err
		}
		h.w = tw
		h.closers = append([]io.Closer{tw}, h.closers...)
	}

	if opts.Header != nil {
		if _, err := h.Write(opts.Header); err != nil {
			_ = h.Close()
			return nil, fmt.Errorf(`write header to "%s" error: %w`, t.name, err)
		}
	}

	return h, nil
}

// detectWrite applies the format resolution order for write targets, which are not peekable: explicit override first,
// then the file name extension.
func (o *Opener) detectWrite(t *target, opts *Options) (*Format, error) {
	switch opts.Compression {
	case None:
		return nil, nil
	case Auto:
		return o.Registry.DetectName(detectName(t)), nil
	default:
		return o.Registry.Get(opts.Compression)
	}
}

// detectName returns the name usable for extension-based format detection, or "" for nameless targets.
func detectName(t *target) string {
	switch t.kind {
	case targetPath:
		return t.path
	case targetURL:
		return t.url.Path
	}
	return ""
}

// procCloser adapts a process into the io.Closer owned by a downstream process or handle.
type procCloser struct {
	p *process
}

func (c procCloser) Close() error {
	return c.p.close()
}

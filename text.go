package xopen

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// defaultLineSeparator is the platform-neutral line separator used by text mode unless overridden.
const defaultLineSeparator = "\n"

// resolveEncoding maps an IANA character set name to its encoding. The empty name and utf-8 return nil, meaning no
// transcoding (bytes are validated as UTF-8 instead).
func resolveEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, &EncodingError{Encoding: name, Err: errors.New("unknown encoding")}
	}

	return enc, nil
}

// newTextReader wraps a binary stream so the caller reads UTF-8 text with lines separated by "\n" regardless of the
// stream's encoding and line separator. Decoding failures surface as EncodingError at the offending Read.
func newTextReader(r io.Reader, encodingName, lineSep string) (io.Reader, error) {
	enc, err := resolveEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	var ts []transform.Transformer
	if enc != nil {
		ts = append(ts, enc.NewDecoder())
	} else {
		ts = append(ts, encoding.UTF8Validator)
	}
	if lineSep != defaultLineSeparator {
		ts = append(ts, &sepTransformer{from: []byte(lineSep), to: []byte(defaultLineSeparator)})
	}

	return &textReader{
		tr:       transform.NewReader(taggedReader{r}, transform.Chain(ts...)),
		encoding: encodingName,
	}, nil
}

// newTextWriter is the write-side counterpart of newTextReader: the caller writes UTF-8 text with "\n" separators and
// the stream receives the configured encoding and line separator. The returned writer must be closed to flush any
// partially translated bytes; closing it does not close the underlying stream.
func newTextWriter(w io.Writer, encodingName, lineSep string) (io.WriteCloser, error) {
	enc, err := resolveEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	var ts []transform.Transformer
	if lineSep != defaultLineSeparator {
		ts = append(ts, &sepTransformer{from: []byte(defaultLineSeparator), to: []byte(lineSep)})
	}
	if enc != nil {
		ts = append(ts, enc.NewEncoder())
	} else {
		ts = append(ts, encoding.UTF8Validator)
	}

	return &textWriter{
		tw:       transform.NewWriter(taggedWriter{w}, transform.Chain(ts...)),
		encoding: encodingName,
	}, nil
}

type textReader struct {
	tr       *transform.Reader
	encoding string
}

func (r *textReader) Read(p []byte) (int, error) {
	n, err := r.tr.Read(p)
	return n, untag(err, r.encoding)
}

type textWriter struct {
	tw       *transform.Writer
	encoding string
}

func (w *textWriter) Write(p []byte) (int, error) {
	n, err := w.tw.Write(p)
	return n, untag(err, w.encoding)
}

func (w *textWriter) Close() error {
	return untag(w.tw.Close(), w.encoding)
}

// taggedError marks an error as originating from the underlying stream rather than from the text transformation, so
// that untag can tell I/O failures apart from encoding failures.
type taggedError struct {
	err error
}

func (e *taggedError) Error() string {
	return e.err.Error()
}

func (e *taggedError) Unwrap() error {
	return e.err
}

type taggedReader struct {
	r io.Reader
}

func (t taggedReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF {
		err = &taggedError{err}
	}
	return n, err
}

type taggedWriter struct {
	w io.Writer
}

func (t taggedWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil {
		err = &taggedError{err}
	}
	return n, err
}

func untag(err error, encodingName string) error {
	switch err {
	case nil, io.EOF:
		return err
	}

	var te *taggedError
	if errors.As(err, &te) {
		return te.err
	}

	return &EncodingError{Encoding: encodingName, Err: err}
}

// sepTransformer rewrites every occurrence of from to to. It is used in both directions of line-separator
// translation, e.g. "\r\n" to "\n" on read and back on write.
type sepTransformer struct {
	transform.NopResetter

	from, to []byte
}

func (t *sepTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if src[nSrc] == t.from[0] {
			rem := src[nSrc:]
			if len(rem) < len(t.from) && !atEOF {
				// might be a separator split across the chunk boundary.
				if bytes.HasPrefix(t.from, rem) {
					return nDst, nSrc, transform.ErrShortSrc
				}
			}
			if bytes.HasPrefix(rem, t.from) {
				if len(dst)-nDst < len(t.to) {
					return nDst, nSrc, transform.ErrShortDst
				}
				nDst += copy(dst[nDst:], t.to)
				nSrc += len(t.from)
				continue
			}
		}

		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = src[nSrc]
		nDst++
		nSrc++
	}

	return nDst, nSrc, nil
}

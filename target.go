package xopen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"strings"
)

// Std is the target sentinel denoting the process's standard input in read mode or standard output in write mode.
const Std = "-"

// CommandMarker is the leading character that marks a string target as a subprocess command, e.g. "|sort -k2". The
// remainder of the string is split into an argument vector; single and double quotes group words and are stripped,
// but there is no other shell processing (no variables, globs, or redirection).
const CommandMarker = '|'

var urlSchemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// Buffer is an in-memory open target. Opening a Buffer in read mode reads a snapshot of its current contents; write
// mode replaces the contents while append mode extends them.
type Buffer struct {
	bytes.Buffer
}

// NewBuffer returns a Buffer seeded with the given bytes.
func NewBuffer(seed []byte) *Buffer {
	b := &Buffer{}
	b.Write(seed)
	return b
}

type targetKind int

const (
	targetPath targetKind = iota
	targetURL
	targetStd
	targetStream
	targetCommand
	targetBuffer
)

// target is the resolved form of an open request's destination. It is immutable once resolved for a given open call.
type target struct {
	kind   targetKind
	name   string
	path   string
	url    *url.URL
	argv   []string
	reader io.Reader
	writer io.Writer
	buffer *Buffer
}

// resolve classifies an arbitrary open request into a target and rejects mode combinations that can never succeed.
func resolve(v any, opts *Options) (*target, error) {
	switch t := v.(type) {
	case string:
		return resolveString(t, opts)

	case *Buffer:
		return &target{kind: targetBuffer, name: "<buffer>", buffer: t}, nil

	case nil:
		return nil, &InvalidTargetError{Target: "<nil>", Reason: "target is nil"}

	default:
		return resolveStream(t, opts)
	}
}

func resolveString(s string, opts *Options) (*target, error) {
	switch {
	case len(s) > 0 && s[0] == CommandMarker:
		if opts.Mode == Append {
			return nil, &InvalidTargetError{Target: s, Reason: "cannot append to a subprocess command"}
		}

		argv, err := splitArgv(s[1:])
		if err != nil {
			return nil, &InvalidTargetError{Target: s, Reason: err.Error()}
		}
		if len(argv) == 0 {
			return nil, &InvalidTargetError{Target: s, Reason: "empty command"}
		}

		return &target{kind: targetCommand, name: s, argv: argv}, nil

	case s == Std:
		if opts.Mode == Append {
			return nil, &InvalidTargetError{Target: s, Reason: "cannot append to a standard stream"}
		}

		return &target{kind: targetStd, name: s}, nil

	case urlSchemePattern.MatchString(s):
		if opts.Mode == Append {
			return nil, &InvalidTargetError{Target: s, Reason: "cannot append to a URL"}
		}

		u, err := url.Parse(s)
		if err != nil {
			return nil, &InvalidTargetError{Target: s, Reason: err.Error()}
		}

		return &target{kind: targetURL, name: s, url: u}, nil

	case s == "":
		return nil, &InvalidTargetError{Target: s, Reason: "empty target"}

	default:
		if opts.Mode == Read {
			switch fi, err := os.Stat(s); {
			case err != nil:
				return nil, &InvalidTargetError{Target: s, Reason: "no such file"}
			case fi.IsDir():
				return nil, &InvalidTargetError{Target: s, Reason: "is a directory"}
			}
		}

		return &target{kind: targetPath, name: s, path: s}, nil
	}
}

// splitArgv splits a command string into an argument vector. Quoted sections keep their whitespace and can produce
// empty arguments; the quotes themselves are stripped.
func splitArgv(s string) ([]string, error) {
	var (
		argv   []string
		cur    strings.Builder
		inWord bool
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '"':
			j := strings.IndexByte(s[i+1:], c)
			if j < 0 {
				return nil, errors.New("unterminated quote in command")
			}
			cur.WriteString(s[i+1 : i+1+j])
			i += j + 1
			inWord = true
		case ' ', '\t', '\n', '\r':
			if inWord {
				argv = append(argv, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteByte(c)
			inWord = true
		}
	}
	if inWord {
		argv = append(argv, cur.String())
	}

	return argv, nil
}

// resolveStream wraps an already-open stream object, checking its read/write/seek capabilities once at the boundary.
func resolveStream(v any, opts *Options) (*target, error) {
	name := fmt.Sprintf("<%T>", v)
	r, canRead := v.(io.Reader)
	w, canWrite := v.(io.Writer)
	_, canSeek := v.(io.Seeker)

	switch {
	case !canRead && !canWrite:
		return nil, &InvalidTargetError{Target: name, Reason: "not a readable or writable stream"}
	case opts.Mode == Read && !canRead:
		return nil, &InvalidTargetError{Target: name, Reason: "stream is not readable"}
	case opts.Mode != Read && !canWrite:
		return nil, &InvalidTargetError{Target: name, Reason: "stream is not writable"}
	case opts.Mode == Append && !canSeek:
		return nil, &InvalidTargetError{Target: name, Reason: "cannot append to a non-seekable stream"}
	}

	return &target{kind: targetStream, name: name, reader: r, writer: w}, nil
}

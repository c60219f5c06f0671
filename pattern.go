package xopen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// TokenFunc extracts the routing token from one line of input. Returning false means the line carries no token and
// cannot be routed.
type TokenFunc func(line string) (string, bool)

// FieldToken returns a TokenFunc that uses the i-th whitespace-separated field (0-based) of each line as the token.
func FieldToken(i int) TokenFunc {
	return func(line string) (string, bool) {
		fields := strings.Fields(line)
		if i < 0 || i >= len(fields) {
			return "", false
		}
		return fields[i], true
	}
}

// RegexpToken returns a TokenFunc that uses the first capture group of re (or the whole match if there are no groups)
// as the token.
func RegexpToken(re *regexp.Regexp) TokenFunc {
	return func(line string) (string, bool) {
		m := re.FindStringSubmatch(line)
		switch {
		case m == nil:
			return "", false
		case len(m) > 1:
			return m[1], true
		default:
			return m[0], true
		}
	}
}

// PatternWriter demultiplexes lines of text into per-token output files. The template must contain exactly one "{}"
// placeholder, which is replaced by the token extracted from each line; each distinct token opens its own file lazily
// on first use, so only tokens that actually occur produce files. Every bucket file goes through the same transparent
// compression pipeline as any other write target, so "out-{}.gz" buckets come out gzip-compressed.
//
// A PatternWriter is not safe for concurrent use.
type PatternWriter struct {
	opener   *Opener
	template string
	token    TokenFunc
	optFns   []func(*Options)

	handles map[string]*Handle
	paths   map[string]string
	order   []string
	closed  bool
}

// NewPatternWriter creates a PatternWriter routing lines to files named by substituting the extracted token into
// template. Open options apply to every bucket file.
func NewPatternWriter(template string, token TokenFunc, optFns ...func(*Options)) (*PatternWriter, error) {
	return defaultOpener.NewPatternWriter(template, token, optFns...)
}

// NewPatternWriter creates a PatternWriter whose bucket files are opened through this Opener. See the package-level
// NewPatternWriter.
func (o *Opener) NewPatternWriter(template string, token TokenFunc, optFns ...func(*Options)) (*PatternWriter, error) {
	if strings.Count(template, "{}") != 1 {
		return nil, &InvalidTargetError{Target: template, Reason: `template must contain exactly one "{}" placeholder`}
	}
	if token == nil {
		return nil, &InvalidTargetError{Target: template, Reason: "no token extractor"}
	}

	return &PatternWriter{
		opener:   o,
		template: template,
		token:    token,
		optFns:   optFns,
		handles:  make(map[string]*Handle),
		paths:    make(map[string]string),
	}, nil
}

// WriteLine routes one line (without its trailing separator) to the bucket of its token, opening the bucket file on
// first use. A line whose token cannot be extracted is an error; nothing is written for it.
func (w *PatternWriter) WriteLine(line string) error {
	if w.closed {
		return fmt.Errorf(`write to closed pattern writer "%s"`, w.template)
	}

	tok, ok := w.token(line)
	if !ok {
		return fmt.Errorf(`no token in line "%s"`, line)
	}

	h, ok := w.handles[tok]
	if !ok {
		path := strings.Replace(w.template, "{}", tok, 1)
		if prev, collided := w.paths[path]; collided {
			return fmt.Errorf(`tokens "%s" and "%s" map to the same file "%s"`, prev, tok, path)
		}

		var err error
		if h, err = w.opener.Open(path, append(w.optFns, func(opts *Options) {
			opts.Mode = Write
		})...); err != nil {
			return err
		}

		w.handles[tok] = h
		w.paths[path] = tok
		w.order = append(w.order, tok)
	}

	if _, err := fmt.Fprintln(h, line); err != nil {
		return fmt.Errorf(`write to "%s" error: %w`, h.Name(), err)
	}

	return nil
}

// Tokens returns the distinct tokens seen so far in first-seen order.
func (w *PatternWriter) Tokens() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// Close closes every bucket file in first-seen order. Failures are collected so one bad bucket never prevents the
// rest from closing; the aggregate is reported as a CloseError. Double close is a no-op.
func (w *PatternWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var result *multierror.Error
	for _, tok := range w.order {
		if err := w.handles[tok].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return newCloseError(result)
}

package xopen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// maxStderrBytes bounds how much of a subprocess's standard error is retained for error messages.
const maxStderrBytes = 32 * 1024

type stdioPolicy int

const (
	stdioInherit stdioPolicy = iota
	stdioPipe
	stdioConnect
)

// stdio describes how one standard stream of a spawned program is wired: inherited from this process, piped to the
// caller, or connected to an already-open stream whose closer the process then owns.
type stdio struct {
	policy stdioPolicy
	reader io.Reader
	writer io.Writer
	closer io.Closer
}

func inheritStdio() stdio {
	return stdio{policy: stdioInherit}
}

func pipeStdio() stdio {
	return stdio{policy: stdioPipe}
}

func connectReader(r io.Reader, c io.Closer) stdio {
	return stdio{policy: stdioConnect, reader: r, closer: c}
}

func connectWriter(w io.Writer, c io.Closer) stdio {
	return stdio{policy: stdioConnect, writer: w, closer: c}
}

// process supervises one spawned subprocess used either as a compression engine or as a user-specified pipeline
// stage. Its standard error is always drained concurrently with the caller's use of the piped streams so a chatty
// program cannot deadlock on a full stderr pipe; the drain is joined before the exit status is collected.
type process struct {
	argv    []string
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.ReadCloser
	stderr  boundedBuffer
	conns   []io.Closer
	waitErr error
	waited  bool
}

// startProcess spawns argv[0] with the given stdin/stdout wiring. argv is executed directly, never through a shell.
// On any failure everything constructed so far is torn down before the error is returned.
func startProcess(ctx context.Context, argv []string, stdin, stdout stdio) (*process, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	p := &process{argv: argv, cmd: cmd}

	// exec.Cmd copies stderr on its own goroutine for the process's entire lifetime, and Wait joins it.
	cmd.Stderr = &p.stderr

	switch stdin.policy {
	case stdioInherit:
		cmd.Stdin = os.Stdin
	case stdioConnect:
		cmd.Stdin = stdin.reader
		if stdin.closer != nil {
			p.conns = append(p.conns, stdin.closer)
		}
	case stdioPipe:
		w, err := cmd.StdinPipe()
		if err != nil {
			p.closeConns(nil)
			return nil, fmt.Errorf("pipe stdin of %s error: %w", argv[0], err)
		}
		p.stdin = w
	}

	switch stdout.policy {
	case stdioInherit:
		cmd.Stdout = os.Stdout
	case stdioConnect:
		cmd.Stdout = stdout.writer
		if stdout.closer != nil {
			p.conns = append(p.conns, stdout.closer)
		}
	case stdioPipe:
		r, err := cmd.StdoutPipe()
		if err != nil {
			p.closePipes(nil)
			p.closeConns(nil)
			return nil, fmt.Errorf("pipe stdout of %s error: %w", argv[0], err)
		}
		p.stdout = r
	}

	if err := cmd.Start(); err != nil {
		p.closePipes(nil)
		p.closeConns(nil)
		return nil, fmt.Errorf("start %s error: %w", argv[0], err)
	}

	return p, nil
}

// close releases the process: the caller-visible pipe ends are closed first so the program sees EOF and can flush,
// then the process is waited on, then the connected target streams are released. A nonzero exit becomes a
// ProcessError carrying the captured stderr.
func (p *process) close() error {
	var result *multierror.Error

	p.closePipes(&result)
	if err := p.wait(); err != nil {
		result = multierror.Append(result, err)
	}
	p.closeConns(&result)

	return result.ErrorOrNil()
}

func (p *process) closePipes(result **multierror.Error) {
	for _, c := range []io.Closer{p.stdin, p.stdout} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) && result != nil {
			*result = multierror.Append(*result, err)
		}
	}
	p.stdin, p.stdout = nil, nil
}

func (p *process) closeConns(result **multierror.Error) {
	for _, c := range p.conns {
		if err := c.Close(); err != nil && result != nil {
			*result = multierror.Append(*result, err)
		}
	}
	p.conns = nil
}

// wait blocks until the process exits, joining the stderr drain first, and memoises the result.
func (p *process) wait() error {
	if p.waited {
		return p.waitErr
	}
	p.waited = true

	var ee *exec.ExitError
	switch err := p.cmd.Wait(); {
	case err == nil:
	case errors.As(err, &ee):
		p.waitErr = &ProcessError{Argv: p.argv, ExitCode: ee.ExitCode(), Stderr: p.stderr.String()}
	default:
		p.waitErr = fmt.Errorf("wait for %s error: %w", p.argv[0], err)
	}

	return p.waitErr
}

// boundedBuffer retains up to maxStderrBytes of whatever is written to it and discards the rest.
type boundedBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n := maxStderrBytes - len(b.buf); n > 0 {
		if n > len(p) {
			n = len(p)
		}
		b.buf = append(b.buf, p[:n]...)
	}

	return len(p), nil
}

func (b *boundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

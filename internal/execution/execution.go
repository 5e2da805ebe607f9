// SPDX-License-Identifier: MPL-2.0

package execution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	// DefaultShellPath is the shell used to run the command line in shell mode.
	DefaultShellPath = "/bin/sh"
	// DefaultEncoding decodes child output when no encoding is configured.
	DefaultEncoding = "utf-8"

	// InterruptMarker is recorded on stderr when an execution is interrupted.
	InterruptMarker = " KeyboardInterrupt\n"

	exitStatusUnknown = -1
)

var (
	// ErrEmptyArgs is returned when an execution is created without arguments.
	ErrEmptyArgs = errors.New("execution requires at least one argument")
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("execution already started")
	// ErrInterrupted is returned by Execute when its context is cancelled
	// while output is still being read.
	ErrInterrupted = errors.New("execution interrupted")
	// ErrUnknownEncoding is the sentinel error wrapped by UnknownEncodingError.
	ErrUnknownEncoding = errors.New("unknown encoding")
	// ErrStart is the sentinel error wrapped by StartError.
	ErrStart = errors.New("failed to start process")
)

type (
	// Option configures an Execution.
	Option func(*Execution)

	// Execution is a single process run: the request (arguments, environment and
	// options) plus, once executed, the captured output and exit status.
	// An Execution is single-use.
	Execution struct {
		args           []string
		env            map[string]string
		shell          bool
		shellPath      string
		dir            string
		redirectStderr bool
		encodingName   string
		encoding       encoding.Encoding
		stdoutSink     io.Writer
		stderrSink     io.Writer
		logger         *log.Logger

		mu          sync.Mutex
		cmd         *exec.Cmd
		pipes       []*os.File
		stdout      []string
		stderr      []string
		exited      bool
		exitStatus  int
		interrupted bool
	}

	// UnknownEncodingError is returned when the configured output encoding is not
	// a known encoding label.
	UnknownEncodingError struct {
		Name string
	}

	// StartError is returned when the process could not be spawned.
	StartError struct {
		Command string
		Cause   error
	}

	stream int

	chunk struct {
		stream stream
		text   string
	}
)

const (
	streamStdout stream = iota
	streamStderr
)

// Error implements the error interface.
func (e *UnknownEncodingError) Error() string {
	return fmt.Sprintf("unknown encoding %q", e.Name)
}

// Unwrap returns ErrUnknownEncoding so callers can use errors.Is for programmatic detection.
func (e *UnknownEncodingError) Unwrap() error { return ErrUnknownEncoding }

// Error implements the error interface.
func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start %q: %v", e.Command, e.Cause)
}

// Unwrap returns ErrStart so callers can use errors.Is for programmatic detection.
func (e *StartError) Unwrap() []error { return []error{ErrStart, e.Cause} }

// WithShell selects whether the arguments run through a shell (default true).
func WithShell(shell bool) Option {
	return func(e *Execution) { e.shell = shell }
}

// WithShellPath sets the shell used in shell mode.
func WithShellPath(path string) Option {
	return func(e *Execution) {
		if path != "" {
			e.shellPath = path
		}
	}
}

// WithDir sets the working directory of the child. Empty means the current directory.
func WithDir(dir string) Option {
	return func(e *Execution) { e.dir = dir }
}

// WithRedirectStderr merges the child's stderr into its stdout stream.
func WithRedirectStderr(redirect bool) Option {
	return func(e *Execution) { e.redirectStderr = redirect }
}

// WithEncoding sets the encoding label (WHATWG names such as "utf-8" or
// "latin1") used to decode child output. Invalid byte sequences are replaced.
func WithEncoding(name string) Option {
	return func(e *Execution) {
		if name != "" {
			e.encodingName = name
		}
	}
}

// WithStdout sets where stdout lines are echoed (default os.Stdout).
func WithStdout(w io.Writer) Option {
	return func(e *Execution) { e.stdoutSink = w }
}

// WithStderr sets where stderr lines are echoed (default os.Stderr).
func WithStderr(w io.Writer) Option {
	return func(e *Execution) { e.stderrSink = w }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(e *Execution) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an execution request. Nothing is spawned until Start or Execute.
// The arguments and environment are copied; the child sees exactly env.
func New(args []string, env map[string]string, opts ...Option) (*Execution, error) {
	if len(args) == 0 {
		return nil, ErrEmptyArgs
	}

	e := &Execution{
		args:         slices.Clone(args),
		env:          maps.Clone(env),
		shell:        true,
		shellPath:    DefaultShellPath,
		encodingName: DefaultEncoding,
		stdoutSink:   os.Stdout,
		stderrSink:   os.Stderr,
		exitStatus:   exitStatusUnknown,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "execution",
		}),
	}
	if e.env == nil {
		e.env = make(map[string]string)
	}
	for _, opt := range opts {
		opt(e)
	}

	enc, err := htmlindex.Get(e.encodingName)
	if err != nil {
		return nil, &UnknownEncodingError{Name: e.encodingName}
	}
	e.encoding = enc

	return e, nil
}

// Args returns a copy of the argument vector.
func (e *Execution) Args() []string { return slices.Clone(e.args) }

// Env returns a copy of the child environment.
func (e *Execution) Env() map[string]string { return maps.Clone(e.env) }

// Dir returns the working directory override, or "" when none is set.
func (e *Execution) Dir() string { return e.dir }

// IsShell reports whether the arguments run through a shell.
func (e *Execution) IsShell() bool { return e.shell }

// ShellPath returns the shell used in shell mode.
func (e *Execution) ShellPath() string { return e.shellPath }

// RedirectStderr reports whether stderr is merged into stdout.
func (e *Execution) RedirectStderr() bool { return e.redirectStderr }

// Encoding returns the encoding label used to decode output.
func (e *Execution) Encoding() string { return e.encodingName }

// CommandLine returns the sanitized command line run by the shell in shell mode.
func (e *Execution) CommandLine() string { return JoinShellArgs(e.args) }

// Stdout returns a copy of the captured stdout lines.
func (e *Execution) Stdout() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.stdout)
}

// Stderr returns a copy of the captured stderr lines. It is empty when stderr
// is redirected, apart from an interrupt marker.
func (e *Execution) Stderr() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.stderr)
}

// Output returns the captured stdout as a single string.
func (e *Execution) Output() string { return strings.Join(e.Stdout(), "") }

// ErrOutput returns the captured stderr as a single string.
func (e *Execution) ErrOutput() string { return strings.Join(e.Stderr(), "") }

// PID returns the child process id, or 0 before the process is started.
func (e *Execution) PID() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil || e.cmd.Process == nil {
		return 0
	}
	return e.cmd.Process.Pid
}

// Started reports whether the child has been spawned.
func (e *Execution) Started() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cmd != nil
}

// Exited reports whether the child has been reaped.
func (e *Execution) Exited() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exited
}

// ExitStatus returns the exit code of the child. It is -1 while unknown and the
// negated signal number when the child was killed by a signal.
func (e *Execution) ExitStatus() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exitStatus
}

// Success reports whether the child exited with status 0.
func (e *Execution) Success() bool { return e.ExitStatus() == 0 }

// Interrupted reports whether Execute stopped because its context was cancelled.
func (e *Execution) Interrupted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interrupted
}

// Start spawns the child process with its output connected to pipes.
func (e *Execution) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd != nil {
		return ErrAlreadyStarted
	}

	var cmd *exec.Cmd
	if e.shell {
		cmd = exec.Command(e.shellPath, "-c", e.CommandLine())
	} else {
		cmd = exec.Command(e.args[0], e.args[1:]...)
	}
	cmd.Env = environ(e.env)
	cmd.Dir = e.dir

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return &StartError{Command: e.describe(), Cause: err}
	}
	pipes := []*os.File{stdoutR}
	writers := []*os.File{stdoutW}
	cmd.Stdout = stdoutW

	if e.redirectStderr {
		cmd.Stderr = stdoutW
	} else {
		stderrR, stderrW, pipeErr := os.Pipe()
		if pipeErr != nil {
			closeAll(pipes, writers)
			return &StartError{Command: e.describe(), Cause: pipeErr}
		}
		pipes = append(pipes, stderrR)
		writers = append(writers, stderrW)
		cmd.Stderr = stderrW
	}

	if err := cmd.Start(); err != nil {
		closeAll(pipes, writers)
		return &StartError{Command: e.describe(), Cause: err}
	}
	// The child holds its own copies; the read ends see EOF once it exits.
	closeAll(writers)

	e.cmd = cmd
	e.pipes = pipes
	e.logger.Debug("process started", "pid", cmd.Process.Pid, "command", e.describe(), "dir", e.dir)

	return nil
}

// Execute starts the child if needed and streams its output until both pipes are
// drained, then waits for the child to exit. A non-zero exit status is not an
// error; inspect ExitStatus.
//
// When ctx is cancelled while output is being read, the interrupt marker is
// recorded on stderr, the pipes are closed, and ErrInterrupted is returned. The
// child is not killed; it is reaped in the background.
func (e *Execution) Execute(ctx context.Context) error {
	if !e.Started() {
		if err := e.Start(); err != nil {
			return err
		}
	}

	e.mu.Lock()
	pipes := e.pipes
	e.pipes = nil
	e.mu.Unlock()
	if pipes == nil {
		return ErrAlreadyStarted
	}

	lines := make(chan chunk)
	stop := make(chan struct{})
	var readers sync.WaitGroup
	for i, pipe := range pipes {
		readers.Add(1)
		go func() {
			defer readers.Done()
			e.pump(pipe, stream(i), lines, stop)
		}()
	}
	go func() {
		readers.Wait()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			close(stop)
			closeAll(pipes)
			e.interrupt()
			go func() {
				readers.Wait()
				_ = e.wait()
			}()
			return ErrInterrupted
		case c, ok := <-lines:
			if !ok {
				return e.wait()
			}
			e.record(c)
		}
	}
}

// pump reads one pipe line by line until EOF or stop.
func (e *Execution) pump(pipe *os.File, s stream, out chan<- chunk, stop <-chan struct{}) {
	defer pipe.Close()

	reader := newLineReader(pipe, e.encoding)
	for {
		text, err := reader.ReadString('\n')
		if text != "" {
			select {
			case out <- chunk{stream: s, text: text}:
			case <-stop:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				e.logger.Debug("output pipe read failed", "stream", s, "error", err)
			}
			return
		}
	}
}

func (e *Execution) record(c chunk) {
	e.mu.Lock()
	sink := e.stdoutSink
	if c.stream == streamStderr {
		e.stderr = append(e.stderr, c.text)
		sink = e.stderrSink
	} else {
		e.stdout = append(e.stdout, c.text)
	}
	e.mu.Unlock()

	if sink != nil {
		_, _ = io.WriteString(sink, c.text)
	}
}

func (e *Execution) interrupt() {
	e.mu.Lock()
	e.interrupted = true
	e.stderr = append(e.stderr, InterruptMarker)
	sink := e.stderrSink
	pid := 0
	if e.cmd != nil && e.cmd.Process != nil {
		pid = e.cmd.Process.Pid
	}
	e.mu.Unlock()

	if sink != nil {
		_, _ = io.WriteString(sink, InterruptMarker)
	}
	e.logger.Debug("execution interrupted, child left running", "pid", pid)
}

// wait reaps the child and records its exit status.
func (e *Execution) wait() error {
	err := e.cmd.Wait()

	e.mu.Lock()
	e.exited = true
	if e.cmd.ProcessState != nil {
		e.exitStatus = exitStatusOf(e.cmd.ProcessState)
	}
	status := e.exitStatus
	e.mu.Unlock()

	e.logger.Debug("process exited", "pid", e.cmd.Process.Pid, "status", status)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("wait for %q: %w", e.describe(), err)
	}
	return nil
}

func (e *Execution) describe() string {
	if e.shell {
		return e.shellPath + " -c " + e.CommandLine()
	}
	return strings.Join(e.args, " ")
}

func (s stream) String() string {
	if s == streamStderr {
		return "stderr"
	}
	return "stdout"
}

// environ converts env to sorted KEY=VALUE pairs. The result is never nil so
// the child does not inherit the parent environment.
func environ(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

func closeAll(groups ...[]*os.File) {
	for _, files := range groups {
		for _, f := range files {
			_ = f.Close()
		}
	}
}

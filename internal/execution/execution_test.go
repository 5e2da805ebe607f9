// SPDX-License-Identifier: MPL-2.0

package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"
	"time"
)

func newTestExecution(t *testing.T, args []string, env map[string]string, opts ...Option) (*Execution, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	opts = append([]Option{WithStdout(&stdout), WithStderr(&stderr)}, opts...)
	e, err := New(args, env, opts...)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return e, &stdout, &stderr
}

func skipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping process test in short mode")
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, nil); !errors.Is(err, ErrEmptyArgs) {
		t.Errorf("New(nil) error = %v, want ErrEmptyArgs", err)
	}

	_, err := New([]string{"x"}, nil, WithEncoding("no-such-encoding"))
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Fatalf("New() error = %v, want ErrUnknownEncoding", err)
	}
	var encErr *UnknownEncodingError
	if !errors.As(err, &encErr) || encErr.Name != "no-such-encoding" {
		t.Errorf("error = %#v, want UnknownEncodingError for no-such-encoding", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	args := []string{"echo", "hi"}
	env := map[string]string{"A": "1"}
	e, err := New(args, env)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	args[0] = "changed"
	env["A"] = "changed"

	if got := e.Args(); !slices.Equal(got, []string{"echo", "hi"}) {
		t.Errorf("Args() = %q, want copy of input", got)
	}
	if got := e.Env()["A"]; got != "1" {
		t.Errorf("Env()[A] = %q, want %q", got, "1")
	}
	if !e.IsShell() {
		t.Error("IsShell() = false, want true by default")
	}
	if e.ShellPath() != DefaultShellPath {
		t.Errorf("ShellPath() = %q, want %q", e.ShellPath(), DefaultShellPath)
	}
	if e.Encoding() != DefaultEncoding {
		t.Errorf("Encoding() = %q, want %q", e.Encoding(), DefaultEncoding)
	}
	if e.RedirectStderr() || e.Dir() != "" {
		t.Errorf("unexpected defaults: redirect=%v dir=%q", e.RedirectStderr(), e.Dir())
	}
	if e.PID() != 0 || e.Exited() || e.ExitStatus() != -1 || e.Success() {
		t.Errorf("unstarted state: pid=%d exited=%v status=%d", e.PID(), e.Exited(), e.ExitStatus())
	}
}

func TestExecute_SeparateStreams(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	e, stdout, stderr := newTestExecution(t, []string{"echo out; echo err >&2"}, nil)
	if err := e.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	if got := e.Stdout(); !slices.Equal(got, []string{"out\n"}) {
		t.Errorf("Stdout() = %q, want [out\\n]", got)
	}
	if got := e.Stderr(); !slices.Equal(got, []string{"err\n"}) {
		t.Errorf("Stderr() = %q, want [err\\n]", got)
	}
	if stdout.String() != "out\n" || stderr.String() != "err\n" {
		t.Errorf("sinks = %q / %q, want echoed output", stdout.String(), stderr.String())
	}
	if !e.Exited() || !e.Success() || e.ExitStatus() != 0 {
		t.Errorf("exit state: exited=%v status=%d", e.Exited(), e.ExitStatus())
	}
	if e.PID() <= 0 {
		t.Errorf("PID() = %d, want positive", e.PID())
	}
}

func TestExecute_InterleavedStreamsKeepOrder(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	const n = 500
	script := fmt.Sprintf("i=0; while [ $i -lt %d ]; do echo out$i; echo err$i >&2; i=$((i+1)); done", n)
	e, stdout, stderr := newTestExecution(t, []string{script}, nil)
	if err := e.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	wantOut := make([]string, 0, n)
	wantErr := make([]string, 0, n)
	for i := range n {
		wantOut = append(wantOut, fmt.Sprintf("out%d\n", i))
		wantErr = append(wantErr, fmt.Sprintf("err%d\n", i))
	}
	if got := e.Stdout(); !slices.Equal(got, wantOut) {
		t.Errorf("Stdout() has %d lines out of order, want %d ordered lines", len(got), n)
	}
	if got := e.Stderr(); !slices.Equal(got, wantErr) {
		t.Errorf("Stderr() has %d lines out of order, want %d ordered lines", len(got), n)
	}
	if stdout.String() != strings.Join(wantOut, "") || stderr.String() != strings.Join(wantErr, "") {
		t.Error("sinks do not hold each stream in order")
	}
}

func TestExecute_LargeStderrWithIdleStdout(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	// 4000 lines of 64 bytes is well past a pipe buffer.
	const n = 4000
	line := strings.Repeat("x", 63)
	script := fmt.Sprintf("i=0; while [ $i -lt %d ]; do echo %s >&2; i=$((i+1)); done; echo done", n, line)
	e, _, stderr := newTestExecution(t, []string{script}, nil)

	done := make(chan error, 1)
	go func() { done <- e.Execute(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Execute() unexpected error: %v", err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("Execute() did not return while stderr was flooded")
	}

	if got := e.Stderr(); len(got) != n {
		t.Fatalf("Stderr() has %d lines, want %d", len(got), n)
	}
	if stderr.Len() != n*64 {
		t.Errorf("stderr sink has %d bytes, want %d", stderr.Len(), n*64)
	}
	if got := e.Stdout(); !slices.Equal(got, []string{"done\n"}) {
		t.Errorf("Stdout() = %q, want [done\n]", got)
	}
}

func TestExecute_RedirectStderr(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	e, _, stderr := newTestExecution(t, []string{"echo out; echo err >&2"}, nil, WithRedirectStderr(true))
	if err := e.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	if got := e.Stdout(); !slices.Equal(got, []string{"out\n", "err\n"}) {
		t.Errorf("Stdout() = %q, want both lines in order", got)
	}
	if got := e.Stderr(); len(got) != 0 {
		t.Errorf("Stderr() = %q, want empty", got)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr sink = %q, want empty", stderr.String())
	}
}

func TestExecute_LineOrderAndPartialLine(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	e, _, _ := newTestExecution(t, []string{"for i in 1 2 3 4 5; do echo $i; done; printf tail"}, nil)
	if err := e.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	want := []string{"1\n", "2\n", "3\n", "4\n", "5\n", "tail"}
	if got := e.Stdout(); !slices.Equal(got, want) {
		t.Errorf("Stdout() = %q, want %q", got, want)
	}
	if e.Output() != "1\n2\n3\n4\n5\ntail" {
		t.Errorf("Output() = %q", e.Output())
	}
}

func TestExecute_SanitizedArguments(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	e, _, _ := newTestExecution(t, []string{"printf", "%s|", "a b", `x"y`, "plain-1", "$HOME"}, map[string]string{"HOME": "/nowhere"})
	if err := e.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	// Double quotes still allow expansion.
	if got, want := e.Output(), `a b|x"y|plain-1|/nowhere|`; got != want {
		t.Errorf("Output() = %q, want %q", got, want)
	}
}

func TestExecute_ExactEnvironment(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	env := map[string]string{"GREETING": "there:hi"}
	e, _, _ := newTestExecution(t, []string{`echo "$GREETING ${HOME-unset}"`}, env)
	if err := e.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	if got, want := e.Output(), "there:hi unset\n"; got != want {
		t.Errorf("Output() = %q, want %q", got, want)
	}
}

func TestExecute_WorkingDirectory(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	dir := t.TempDir()
	e, _, _ := newTestExecution(t, []string{"pwd"}, nil, WithDir(dir))
	if err := e.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	if got := strings.TrimSpace(e.Output()); got != dir {
		t.Errorf("pwd = %q, want %q", got, dir)
	}
}

func TestExecute_ExitStatus(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	tests := []struct {
		name string
		cmd  string
		want int
	}{
		{name: "success", cmd: "true", want: 0},
		{name: "failure", cmd: "exit 3", want: 3},
		{name: "signal", cmd: "kill -TERM $$", want: -15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, _, _ := newTestExecution(t, []string{tt.cmd}, nil)
			if err := e.Execute(context.Background()); err != nil {
				t.Fatalf("Execute() unexpected error: %v", err)
			}
			if got := e.ExitStatus(); got != tt.want {
				t.Errorf("ExitStatus() = %d, want %d", got, tt.want)
			}
			if e.Success() != (tt.want == 0) {
				t.Errorf("Success() = %v, want %v", e.Success(), tt.want == 0)
			}
		})
	}
}

func TestExecute_NonShellMode(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	e, _, _ := newTestExecution(t, []string{DefaultShellPath, "-c", "echo \"$0\"", "a b"}, nil, WithShell(false))
	if err := e.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if got, want := e.Output(), "a b\n"; got != want {
		t.Errorf("Output() = %q, want %q", got, want)
	}
}

func TestExecute_Latin1Decoding(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	e, _, _ := newTestExecution(t, []string{`printf 'caf\351\n'`}, nil, WithEncoding("latin1"))
	if err := e.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if got, want := e.Output(), "café\n"; got != want {
		t.Errorf("Output() = %q, want %q", got, want)
	}
}

func TestExecute_InvalidUTF8IsReplaced(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	e, _, _ := newTestExecution(t, []string{`printf 'a\377b\n'`}, nil)
	if err := e.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if got, want := e.Output(), "a\uFFFDb\n"; got != want {
		t.Errorf("Output() = %q, want %q", got, want)
	}
}

func TestStart_Errors(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	e, _, _ := newTestExecution(t, []string{"true"}, nil, WithShellPath("/definitely/not/a/shell"))
	err := e.Execute(context.Background())
	if !errors.Is(err, ErrStart) {
		t.Fatalf("Execute() error = %v, want ErrStart", err)
	}
	if e.Started() {
		t.Error("Started() = true after failed start")
	}

	ok, _, _ := newTestExecution(t, []string{"true"}, nil)
	if err := ok.Start(); err != nil {
		t.Fatalf("Start() unexpected error: %v", err)
	}
	if err := ok.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
	if err := ok.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() after Start() unexpected error: %v", err)
	}
	if err := ok.Execute(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Execute() error = %v, want ErrAlreadyStarted", err)
	}
}

// cancelOnWrite cancels a context on its first write.
// The buffer is a named field so io.WriteString cannot bypass Write.
type cancelOnWrite struct {
	buf    bytes.Buffer
	cancel context.CancelFunc
}

func (w *cancelOnWrite) Write(p []byte) (int, error) {
	defer w.cancel()
	return w.buf.Write(p)
}

func TestExecute_Interrupt(t *testing.T) {
	t.Parallel()
	skipIfShort(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &cancelOnWrite{cancel: cancel}
	var stderr bytes.Buffer
	env := map[string]string{"PATH": os.Getenv("PATH")}
	e, err := New([]string{"echo started; exec sleep 30"}, env, WithStdout(sink), WithStderr(&stderr))
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- e.Execute(ctx) }()

	select {
	case err = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Execute() did not return after interrupt")
	}

	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("Execute() error = %v, want ErrInterrupted", err)
	}
	if !e.Interrupted() {
		t.Error("Interrupted() = false, want true")
	}
	if got := e.Stdout(); !slices.Equal(got, []string{"started\n"}) {
		t.Errorf("Stdout() = %q, want [started\\n]", got)
	}
	if got := e.Stderr(); len(got) == 0 || got[len(got)-1] != InterruptMarker {
		t.Errorf("Stderr() = %q, want trailing interrupt marker", got)
	}
	if stderr.String() != InterruptMarker {
		t.Errorf("stderr sink = %q, want %q", stderr.String(), InterruptMarker)
	}

	// The child is still running; clean it up.
	if proc, findErr := os.FindProcess(e.PID()); findErr == nil {
		_ = proc.Kill()
	}
}

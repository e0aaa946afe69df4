package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"al.essio.dev/pkg/shellescape"
	m "obspy.org/pkg/runtests/internal/model"
)

// bootstrap starts the engine inside the interpreter after setting the numeric
// library's error mode, which cannot be configured from outside the process.
const bootstrap = `import sys
mode = sys.argv.pop(1)
if mode:
    try:
        import numpy
        numpy.seterr(all=mode)
    except ImportError:
        pass
import pytest
sys.exit(pytest.main(sys.argv[1:]))
`

// EngineRequest describes one run of the test engine.
type EngineRequest struct {
	Dir           string
	Args          []string
	Warnings      []string
	NumericErrors m.NumericErrors
}

// TestRunnerAdapter abstracts launching the external test engine.
type TestRunnerAdapter interface {
	// Run executes the engine and waits for it to finish. It returns the
	// engine's exit status; err is set only when the engine could not run.
	Run(ctx context.Context, req EngineRequest) (exitCode int, err error)
}

// LocalTestRunnerAdapter runs pytest through a local Python interpreter.
type LocalTestRunnerAdapter struct {
	python string
	stdout io.Writer
	stderr io.Writer
}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter. Engine output
// is streamed to stdout and stderr.
func NewLocalTestRunnerAdapter(python string, stdout, stderr io.Writer) *LocalTestRunnerAdapter {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return &LocalTestRunnerAdapter{python: python, stdout: stdout, stderr: stderr}
}

// Command returns the full argument vector used for req.
func (a *LocalTestRunnerAdapter) Command(req EngineRequest) []string {
	argv := []string{a.python}
	for _, filter := range req.Warnings {
		argv = append(argv, "-W", filter)
	}

	argv = append(argv, "-c", bootstrap, string(req.NumericErrors))

	return append(argv, req.Args...)
}

// Run executes the engine and waits for it to finish.
func (a *LocalTestRunnerAdapter) Run(ctx context.Context, req EngineRequest) (int, error) {
	return a.runArgv(ctx, req.Dir, a.Command(req))
}

func (a *LocalTestRunnerAdapter) runArgv(ctx context.Context, dir string, argv []string) (int, error) {
	slog.Info("starting test engine", "dir", dir, "command", quoteCommand(argv))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		slog.Info("test engine finished", "exit_code", exitErr.ExitCode())
		return exitErr.ExitCode(), nil
	}

	return -1, fmt.Errorf("failed to run test engine: %w", err)
}

// quoteCommand renders argv for logging, with the bootstrap script elided.
func quoteCommand(argv []string) string {
	parts := make([]string, 0, len(argv))
	for _, arg := range argv {
		if arg == bootstrap {
			arg = "<bootstrap>"
		}

		parts = append(parts, shellescape.Quote(arg))
	}

	return strings.Join(parts, " ")
}

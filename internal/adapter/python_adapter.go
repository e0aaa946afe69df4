package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// ErrModuleNotFound is returned when a module cannot be imported.
	ErrModuleNotFound = errors.New("module not found")
	// ErrNoVersion is returned when a module imports but has no version attribute.
	ErrNoVersion = errors.New("module has no version")
)

const (
	exitImportFailed = 3
	exitNoVersion    = 4
)

const moduleVersionScript = `import importlib, sys
try:
    mod = importlib.import_module(sys.argv[1])
except ImportError:
    sys.exit(3)
try:
    print(mod.__version__)
except AttributeError:
    sys.exit(4)
`

const platformScript = `import platform, sys
value = getattr(platform, sys.argv[1])()
if isinstance(value, tuple):
    value = value[0]
print(value)
`

// PythonAdapter answers questions about the interpreter the engine runs in.
type PythonAdapter interface {
	PythonVersion(ctx context.Context) (string, error)
	PythonImplementation(ctx context.Context) (string, error)
	PythonCompiler(ctx context.Context) (string, error)
	Architecture(ctx context.Context) (string, error)
	// ModuleVersion imports module and returns its __version__, or
	// ErrModuleNotFound / ErrNoVersion.
	ModuleVersion(ctx context.Context, module string) (string, error)
}

// LocalPythonAdapter runs short probe scripts through a local interpreter.
type LocalPythonAdapter struct {
	python string
	dir    string
}

// NewLocalPythonAdapter constructs a LocalPythonAdapter. Probes run in dir so
// that the project's packages import the same way they do under the engine.
func NewLocalPythonAdapter(python, dir string) *LocalPythonAdapter {
	return &LocalPythonAdapter{python: python, dir: dir}
}

// PythonVersion returns platform.python_version().
func (a *LocalPythonAdapter) PythonVersion(ctx context.Context) (string, error) {
	return a.platform(ctx, "python_version")
}

// PythonImplementation returns platform.python_implementation().
func (a *LocalPythonAdapter) PythonImplementation(ctx context.Context) (string, error) {
	return a.platform(ctx, "python_implementation")
}

// PythonCompiler returns platform.python_compiler().
func (a *LocalPythonAdapter) PythonCompiler(ctx context.Context) (string, error) {
	return a.platform(ctx, "python_compiler")
}

// Architecture returns the bit architecture, e.g. "64bit".
func (a *LocalPythonAdapter) Architecture(ctx context.Context) (string, error) {
	return a.platform(ctx, "architecture")
}

// ModuleVersion imports module and returns its __version__.
func (a *LocalPythonAdapter) ModuleVersion(ctx context.Context, module string) (string, error) {
	out, err := a.run(ctx, moduleVersionScript, module)
	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		switch exitErr.ExitCode() {
		case exitImportFailed:
			return "", fmt.Errorf("%w: %s", ErrModuleNotFound, module)
		case exitNoVersion:
			return "", fmt.Errorf("%w: %s", ErrNoVersion, module)
		}
	}

	return "", err
}

func (a *LocalPythonAdapter) platform(ctx context.Context, fn string) (string, error) {
	return a.run(ctx, platformScript, fn)
}

func (a *LocalPythonAdapter) run(ctx context.Context, script string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, a.python, append([]string{"-c", script}, args...)...)
	cmd.Dir = a.dir

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("python probe failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}

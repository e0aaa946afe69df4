package adapter

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePython stands in for the interpreter: $1 is -c, $2 the probe script
// and $3 the probed module or platform function.
const fakePython = `#!/bin/sh
case "$3" in
  missing) exit 3 ;;
  bare) exit 4 ;;
  broken) echo "Traceback" >&2; exit 1 ;;
  python_version) echo "3.11.4" ;;
  python_implementation) echo "CPython" ;;
  python_compiler) echo "GCC 12.2.0" ;;
  architecture) echo "64bit" ;;
  *) echo "1.2.3" ;;
esac
`

func newFakePython(t *testing.T) *LocalPythonAdapter {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "python")
	require.NoError(t, os.WriteFile(path, []byte(fakePython), 0o755))

	return NewLocalPythonAdapter(path, dir)
}

func TestLocalPythonAdapter_ModuleVersion(t *testing.T) {
	adapter := newFakePython(t)
	ctx := context.Background()

	version, err := adapter.ModuleVersion(ctx, "numpy")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", version)

	_, err = adapter.ModuleVersion(ctx, "missing")
	require.ErrorIs(t, err, ErrModuleNotFound)

	_, err = adapter.ModuleVersion(ctx, "bare")
	require.ErrorIs(t, err, ErrNoVersion)

	_, err = adapter.ModuleVersion(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrModuleNotFound)
	assert.Contains(t, err.Error(), "Traceback")
}

func TestLocalPythonAdapter_Platform(t *testing.T) {
	adapter := newFakePython(t)
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func(context.Context) (string, error)
		want string
	}{
		{name: "version", fn: adapter.PythonVersion, want: "3.11.4"},
		{name: "implementation", fn: adapter.PythonImplementation, want: "CPython"},
		{name: "compiler", fn: adapter.PythonCompiler, want: "GCC 12.2.0"},
		{name: "architecture", fn: adapter.Architecture, want: "64bit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalPythonAdapter_MissingInterpreter(t *testing.T) {
	adapter := NewLocalPythonAdapter(filepath.Join(t.TempDir(), "no-python"), "")

	_, err := adapter.PythonVersion(context.Background())
	require.Error(t, err)
}

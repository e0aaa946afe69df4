package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// VersionSource reports the installed version of the package under test.
type VersionSource interface {
	Version(ctx context.Context) (string, error)
}

// LocalVersionSource asks git first and falls back to the installed package's
// __version__ when the project is not a git checkout.
type LocalVersionSource struct {
	root    string
	pkg     string
	python  PythonAdapter
	gitPath string
}

// NewLocalVersionSource constructs a version source for package pkg rooted at root.
func NewLocalVersionSource(root, pkg string, python PythonAdapter) *LocalVersionSource {
	return &LocalVersionSource{root: root, pkg: pkg, python: python, gitPath: "git"}
}

// Version returns the installed version.
func (s *LocalVersionSource) Version(ctx context.Context) (string, error) {
	version, err := s.gitVersion(ctx)
	if err == nil && version != "" {
		return version, nil
	}

	slog.Debug("git version unavailable, asking the interpreter", "error", err)

	if s.python == nil {
		return "", fmt.Errorf("failed to determine version: %w", err)
	}

	return s.python.ModuleVersion(ctx, s.pkg)
}

func (s *LocalVersionSource) gitVersion(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, s.gitPath, "describe", "--dirty", "--abbrev=4", "--always", "--tags")
	cmd.Dir = s.root

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get git version: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

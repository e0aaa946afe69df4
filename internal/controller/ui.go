// Package controller provides the console output of the test runner shim.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	m "obspy.org/pkg/runtests/internal/model"
)

// UI defines everything the runner shows to the user apart from the engine's
// own output. Implementations can use different output methods (simple text, TUI).
type UI interface {
	DisplayVersion(ctx context.Context, prog, version string)
	DisplayIgnoredOptions(ctx context.Context, options []string)
	DisplayCollectionFailure(ctx context.Context, module, text string)
	DisplayModuleTimings(ctx context.Context, timings []m.ModuleTiming)
	DisplayWarning(ctx context.Context, message string)
	DisplayReportDelivered(ctx context.Context, url string)
	DisplayReportFailed(ctx context.Context, server, reason string)
	// ConfirmReport asks whether the results should be reported to server.
	ConfirmReport(ctx context.Context, server string) (bool, error)
}

// NewUI returns the interactive UI when tty is set and the plain one otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// IsInteractive reports whether both input and output of cmd are terminals.
func IsInteractive(in io.Reader, out io.Writer) bool {
	return IsTTY(in) && IsTTY(out)
}

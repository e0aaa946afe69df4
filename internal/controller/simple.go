package controller

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	m "obspy.org/pkg/runtests/internal/model"
)

// SimpleUI implements UI with plain text on the command's output streams.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayVersion prints the program name and installed version.
func (s *SimpleUI) DisplayVersion(ctx context.Context, prog, version string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s %s\n", prog, version)
}

// DisplayIgnoredOptions lists accepted options that have no effect.
func (s *SimpleUI) DisplayIgnoredOptions(ctx context.Context, options []string) {
	if err := ctx.Err(); err != nil {
		return
	}

	for _, option := range options {
		s.errorf("Warning: option %s is accepted but not supported by the test engine yet.\n", option)
	}
}

// DisplayCollectionFailure reports a module whose tests could not be collected.
func (s *SimpleUI) DisplayCollectionFailure(ctx context.Context, module, text string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Cannot import test suite for module obspy.%s\n", module)

	if text != "" {
		s.printf("%s\n", text)
	}
}

// DisplayModuleTimings prints accumulated run times per module.
func (s *SimpleUI) DisplayModuleTimings(ctx context.Context, timings []m.ModuleTiming) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderTimingTable(timings))
}

func renderTimingTable(timings []m.ModuleTiming) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	// Footer cells carry durations; auto formatting would upper-case the units.
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Module", "Tests", "Time", "Average"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	tests := 0
	total := 0.0

	for _, timing := range timings {
		table.Append([]string{
			"obspy." + timing.Module,
			fmt.Sprintf("%d", timing.Tests),
			fmt.Sprintf("%.3fs", timing.Duration.Seconds()),
			fmt.Sprintf("%.4fs", timing.Average().Seconds()),
		})

		tests += timing.Tests
		total += timing.Duration.Seconds()
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Modules %d", len(timings)),
		fmt.Sprintf("%d", tests),
		fmt.Sprintf("%.3fs", total),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayWarning prints a non-fatal problem.
func (s *SimpleUI) DisplayWarning(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", message)
}

// DisplayReportDelivered prints where the report can be viewed.
func (s *SimpleUI) DisplayReportDelivered(ctx context.Context, url string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Your test results have been reported and are available at: %s\nThank you!\n", url)
}

// DisplayReportFailed prints why the report could not be delivered.
func (s *SimpleUI) DisplayReportFailed(ctx context.Context, server, reason string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Error: Could not send a test report to %s.\n", server)
	s.printf("%s\n", reason)
}

// ConfirmReport reads a y/n answer from the command's input. Anything but an
// answer containing "y" declines.
func (s *SimpleUI) ConfirmReport(ctx context.Context, server string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.printf("Do you want to report this to %s? [n]: ", server)

	answer, err := bufio.NewReader(s.cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		s.printf("\n")
		return false, nil
	}

	return strings.Contains(strings.ToLower(answer), "y"), nil
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func (s *SimpleUI) errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), format, args...)
}

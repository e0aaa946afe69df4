package controller

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	promptStyle  = lipgloss.NewStyle().Bold(true)
	hintStyle    = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// TUI implements UI for terminals: plain output plus a Bubble Tea prompt.
type TUI struct {
	*SimpleUI
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd)}
}

// DisplayReportDelivered prints where the report can be viewed.
func (t *TUI) DisplayReportDelivered(ctx context.Context, url string) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.printf("%s\n%s\n",
		successStyle.Render("Your test results have been reported and are available at: "+url),
		"Thank you!")
}

// DisplayReportFailed prints why the report could not be delivered.
func (t *TUI) DisplayReportFailed(ctx context.Context, server, reason string) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.printf("%s\n%s\n", errorStyle.Render(fmt.Sprintf("Error: Could not send a test report to %s.", server)), reason)
}

// ConfirmReport asks with a single key press; enter, n, q and esc decline.
func (t *TUI) ConfirmReport(ctx context.Context, server string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	program := tea.NewProgram(
		newConfirmModel(server),
		tea.WithContext(ctx),
		tea.WithInput(t.cmd.InOrStdin()),
		tea.WithOutput(t.cmd.OutOrStdout()),
	)

	final, err := program.Run()
	if err != nil {
		return false, err
	}

	model, ok := final.(confirmModel)

	return ok && model.confirmed, nil
}

type confirmKeyMap struct {
	Yes  key.Binding
	No   key.Binding
	Quit key.Binding
}

var confirmKeys = confirmKeyMap{
	Yes:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "report")),
	No:   key.NewBinding(key.WithKeys("n", "N", "enter"), key.WithHelp("n", "skip")),
	Quit: key.NewBinding(key.WithKeys("ctrl+c", "esc", "q")),
}

// confirmModel is the Bubble Tea model of the report prompt.
type confirmModel struct {
	server    string
	answered  bool
	confirmed bool
}

func newConfirmModel(server string) confirmModel {
	return confirmModel{server: server}
}

func (c confirmModel) Init() tea.Cmd {
	return nil
}

func (c confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, confirmKeys.Yes):
		c.answered, c.confirmed = true, true
		return c, tea.Quit
	case key.Matches(keyMsg, confirmKeys.No), key.Matches(keyMsg, confirmKeys.Quit):
		c.answered = true
		return c, tea.Quit
	}

	return c, nil
}

func (c confirmModel) View() string {
	answer := ""
	if c.answered {
		answer = "n"
		if c.confirmed {
			answer = "y"
		}
	}

	return fmt.Sprintf("%s %s %s\n",
		promptStyle.Render(fmt.Sprintf("Do you want to report this to %s?", c.server)),
		hintStyle.Render("[y/N]"),
		answer)
}

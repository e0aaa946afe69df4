package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	m "obspy.org/pkg/runtests/internal/model"
)

// ErrVersionRequested is returned by Translate when the version flag is set.
// The caller prints the version and exits successfully.
var ErrVersionRequested = errors.New("version requested")

// Warning filters applied to the engine interpreter.
const (
	ignoreDeprecationWarnings = "ignore::DeprecationWarning"
	ignoreUserWarnings        = "ignore::UserWarning"
)

// Translator maps the legacy command line onto an engine invocation.
type Translator interface {
	Translate(args m.LegacyArgs, env m.ReportEnv) (m.Invocation, error)
}

type translator struct {
	resolver Resolver
}

// NewTranslator constructs a Translator resolving specifiers with resolver.
func NewTranslator(resolver Resolver) Translator {
	return &translator{resolver: resolver}
}

func (t *translator) Translate(args m.LegacyArgs, env m.ReportEnv) (m.Invocation, error) {
	if args.Version {
		return m.Invocation{}, ErrVersionRequested
	}

	var inv m.Invocation

	add := func(flag, value string) {
		inv.Tokens = append(inv.Tokens, m.Token{Flag: flag, Value: value})
	}

	switch {
	case args.Verbose:
		add(m.FlagVerbose, "")
	case args.Quiet:
		add(m.FlagQuiet, "")
		inv.Warnings = append(inv.Warnings, ignoreDeprecationWarnings, ignoreUserWarnings)
	default:
		inv.NumericErrors = m.NumericErrorsPrint
		inv.Warnings = append(inv.Warnings, ignoreUserWarnings)
	}

	if args.RaiseAllWarnings {
		inv.NumericErrors = m.NumericErrorsRaise
		add(m.FlagWarnings, "error")
	}

	if args.AllModules {
		add(m.FlagNetwork, "")
	}

	for _, spec := range args.Exclude {
		nodeID, err := t.resolver.Resolve(spec)
		if err != nil {
			return m.Invocation{}, fmt.Errorf("failed to resolve excluded module: %w", err)
		}

		add(exclusionFlag(nodeID), nodeID)
	}

	if args.Slowest > 0 {
		add(m.FlagDurations, strconv.Itoa(args.Slowest))
	}

	if args.Report || env.Requested {
		add(m.FlagReport, "")
	}

	server := args.Server
	if env.Server != "" {
		server = env.Server
	}

	if server != "" && server != m.DefaultServer {
		add(m.FlagServer, server)
	}

	if args.Node != "" {
		add(m.FlagNode, args.Node)
	}

	// The log path reaches the session through configuration.
	if args.Log != "" {
		add(m.FlagLog, "")
	}

	if args.CIURL != "" {
		add(m.FlagCIURL, args.CIURL)
	}

	if args.PRURL != "" {
		add(m.FlagPRURL, args.PRURL)
	}

	if args.Tutorial {
		add(m.FlagTutorial, "")
	}

	inv.Ignored = ignoredOptions(args)
	if len(inv.Ignored) > 0 {
		slog.Warn("options without an engine equivalent", "options", inv.Ignored)
	}

	for _, spec := range args.Tests {
		nodeID, err := t.resolver.Resolve(spec)
		if err != nil {
			return m.Invocation{}, fmt.Errorf("failed to resolve test target: %w", err)
		}

		add("", nodeID)
	}

	return inv, nil
}

func ignoredOptions(args m.LegacyArgs) []string {
	var ignored []string

	for _, opt := range []struct {
		set  bool
		name string
	}{
		{args.Profile, "--profile"},
		{args.NoFlake8, "--no-flake8"},
		{args.KeepImages, "--keep-images"},
		{args.KeepOnlyFailedImages, "--keep-only-failed-images"},
	} {
		if opt.set {
			ignored = append(ignored, opt.name)
		}
	}

	return ignored
}

// exclusionFlag picks how an excluded node id reaches the engine. Deselection
// matches node id prefixes, so a bare path would also drop its siblings
// (obspy/io/sh and obspy/io/shapefile); paths are ignored instead, which
// matches them exactly.
func exclusionFlag(nodeID string) string {
	if strings.Contains(nodeID, "::") {
		return m.FlagDeselect
	}

	return m.FlagIgnore
}

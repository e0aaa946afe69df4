package domain

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"obspy.org/pkg/runtests/internal/adapter"
	"obspy.org/pkg/runtests/internal/controller"
	m "obspy.org/pkg/runtests/internal/model"
)

var (
	// ErrTestsFailed is returned when at least one test failed or errored.
	ErrTestsFailed = errors.New("tests failed")
	// ErrEngineFailed is returned when the engine was interrupted or could not
	// process its command line.
	ErrEngineFailed = errors.New("test engine failed")
)

// Engine exit statuses.
const (
	exitOK               = 0
	exitTestsFailed      = 1
	exitNoTestsCollected = 5
)

// SessionArgs is everything one session needs besides its collaborators.
type SessionArgs struct {
	Invocation m.Invocation
	// Dir is the project root the engine runs in.
	Dir         string
	TimeIt      bool
	DontAsk     bool
	Interactive bool
	// LogPath is the install log attached to the report when --log is given.
	LogPath string
}

// Session runs the engine for one translated invocation and handles the
// options the engine does not know about.
type Session interface {
	Run(ctx context.Context, args SessionArgs) error
}

type session struct {
	catalog   m.Catalog
	fs        adapter.ProjectFSAdapter
	runner    adapter.TestRunnerAdapter
	results   adapter.ResultReader
	resolver  Resolver
	builder   ReportBuilder
	transport adapter.ReportTransport
	ui        controller.UI
	now       func() time.Time
}

// NewSession constructs a Session.
func NewSession(
	catalog m.Catalog,
	fs adapter.ProjectFSAdapter,
	runner adapter.TestRunnerAdapter,
	results adapter.ResultReader,
	resolver Resolver,
	builder ReportBuilder,
	transport adapter.ReportTransport,
	ui controller.UI,
) Session {
	return &session{
		catalog:   catalog,
		fs:        fs,
		runner:    runner,
		results:   results,
		resolver:  resolver,
		builder:   builder,
		transport: transport,
		ui:        ui,
		now:       time.Now,
	}
}

// sessionOptions are the tokens consumed by the session itself.
type sessionOptions struct {
	report  bool
	server  string
	node    string
	log     bool
	ciURL   string
	prURL   string
	network bool
}

func (s *session) Run(ctx context.Context, args SessionArgs) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(args.Invocation.Ignored) > 0 {
		s.ui.DisplayIgnoredOptions(ctx, args.Invocation.Ignored)
	}

	opts, engineArgs := splitSessionOptions(args.Invocation.Tokens)
	if !opts.network {
		engineArgs = append(s.networkDeselections(), engineArgs...)
	}

	junit, err := s.fs.CreateTempFile("obspy-runtests-*.xml")
	if err != nil {
		slog.Error("failed to create result file", "error", err)
		return fmt.Errorf("failed to create result file: %w", err)
	}

	defer func() {
		if err := s.fs.Remove(junit); err != nil {
			slog.Warn("failed to remove result file", "path", junit, "error", err)
		}
	}()

	engineArgs = append(engineArgs,
		"--junitxml="+string(junit),
		"-o", "junit_family=xunit1",
		"--continue-on-collection-errors",
	)

	start := s.now()

	code, err := s.runner.Run(ctx, adapter.EngineRequest{
		Dir:           args.Dir,
		Args:          engineArgs,
		Warnings:      args.Invocation.Warnings,
		NumericErrors: args.Invocation.NumericErrors,
	})
	if err != nil {
		slog.Error("failed to run test engine", "error", err)
		return fmt.Errorf("failed to run test engine: %w", err)
	}

	finish := s.now()

	switch code {
	case exitOK, exitTestsFailed:
	case exitNoTestsCollected:
		slog.Info("no tests collected")
	default:
		slog.Error("test engine failed", "exit_code", code)
		return fmt.Errorf("%w: exit status %d", ErrEngineFailed, code)
	}

	cases, err := s.results.ReadResults(junit)
	if err != nil {
		slog.Error("failed to read test results", "path", junit, "error", err)
		return fmt.Errorf("failed to read test results: %w", err)
	}

	outcomes := s.outcomes(ctx, cases)

	if args.TimeIt {
		s.ui.DisplayModuleTimings(ctx, moduleTimings(outcomes))
	}

	if s.shouldReport(ctx, opts, args) {
		s.report(ctx, outcomes, opts, SessionInfo{
			Start:    start,
			Finish:   finish,
			LogPath:  logPath(opts, args),
			CIURL:    opts.ciURL,
			PRURL:    opts.prURL,
			Hostname: opts.node,
		})
	}

	var counts m.Counts
	for _, outcome := range outcomes {
		counts.Add(outcome)
	}

	if counts.Failed() || code == exitTestsFailed {
		return ErrTestsFailed
	}

	return nil
}

func splitSessionOptions(tokens []m.Token) (sessionOptions, []string) {
	opts := sessionOptions{server: m.DefaultServer}

	var engineArgs []string

	for _, token := range tokens {
		switch token.Flag {
		case m.FlagReport:
			opts.report = true
		case m.FlagServer:
			opts.server = token.Value
		case m.FlagNode:
			opts.node = token.Value
		case m.FlagLog:
			opts.log = true
		case m.FlagCIURL:
			opts.ciURL = token.Value
		case m.FlagPRURL:
			opts.prURL = token.Value
		case m.FlagNetwork:
			opts.network = true
		default:
			engineArgs = append(engineArgs, token.Args()...)
		}
	}

	return opts, engineArgs
}

// networkDeselections keeps the network modules out of a default run.
func (s *session) networkDeselections() []string {
	var args []string

	for _, module := range s.catalog.NetworkModules {
		dir := strings.ReplaceAll(module, ".", "/")
		if s.catalog.Package != "" {
			dir = s.catalog.Package + "/" + dir
		}

		if !s.fs.IsDir(m.Path(dir)) {
			continue
		}

		args = append(args, m.FlagDeselect, dir+"/")
	}

	return args
}

// outcomes resolves result records to node ids. Records without a class
// stand for modules that failed to import and are shown right away.
func (s *session) outcomes(ctx context.Context, cases []m.TestCase) []m.Outcome {
	outcomes := make([]m.Outcome, 0, len(cases))

	for _, tc := range cases {
		nodeID, err := s.resolver.NodeID(tc)
		if err != nil {
			slog.Warn("failed to resolve test record", "classname", tc.ClassName, "name", tc.Name, "error", err)

			nodeID = strings.Trim(strings.ReplaceAll(tc.ClassName, ".", "/")+"::"+tc.Name, ":")
		}

		outcome := m.Outcome{
			NodeID:     nodeID,
			Duration:   tc.Duration,
			Category:   tc.Category,
			Collection: tc.ClassName == "" && tc.Category == m.Errored,
		}

		switch tc.Category {
		case m.Failed, m.Errored:
			outcome.Text = cmp.Or(tc.Text, tc.Message)
		case m.Skipped:
			outcome.SkipReason = tc.Message
		case m.Passed:
		}

		if outcome.Collection {
			s.ui.DisplayCollectionFailure(ctx, moduleName(nodeID), outcome.Text)
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

func (s *session) shouldReport(ctx context.Context, opts sessionOptions, args SessionArgs) bool {
	if opts.report {
		return true
	}

	if args.DontAsk || !args.Interactive {
		return false
	}

	ok, err := s.ui.ConfirmReport(ctx, opts.server)
	if err != nil {
		slog.Warn("report prompt failed", "error", err)
		return false
	}

	return ok
}

// report builds and sends the report. Delivery problems are shown but never
// change the outcome of the run.
func (s *session) report(ctx context.Context, outcomes []m.Outcome, opts sessionOptions, info SessionInfo) {
	_, params, err := s.builder.Build(ctx, outcomes, info)
	if err != nil {
		slog.Error("failed to build report", "error", err)
		s.ui.DisplayReportFailed(ctx, opts.server, err.Error())

		return
	}

	delivery, err := s.transport.Send(ctx, opts.server, params.Encode())
	if err != nil {
		slog.Error("failed to send report", "server", opts.server, "error", err)
		s.ui.DisplayReportFailed(ctx, opts.server, err.Error())

		return
	}

	if !delivery.OK() {
		slog.Warn("report rejected", "server", opts.server, "status", delivery.StatusCode)
		s.ui.DisplayReportFailed(ctx, opts.server, delivery.Reason)

		return
	}

	s.ui.DisplayReportDelivered(ctx, delivery.URL)
}

func logPath(opts sessionOptions, args SessionArgs) string {
	if !opts.log {
		return ""
	}

	return args.LogPath
}

// moduleTimings accumulates run time per module, slowest module first.
func moduleTimings(outcomes []m.Outcome) []m.ModuleTiming {
	groups := groupByModule(outcomes)
	timings := make([]m.ModuleTiming, 0, len(groups.order))

	for _, module := range groups.order {
		timing := m.ModuleTiming{Module: module}
		for _, outcome := range groups.outcomes[module] {
			timing.Tests++
			timing.Duration += outcome.Duration
		}

		timings = append(timings, timing)
	}

	slices.SortStableFunc(timings, func(a, b m.ModuleTiming) int {
		return cmp.Or(cmp.Compare(b.Duration, a.Duration), strings.Compare(a.Module, b.Module))
	})

	return timings
}

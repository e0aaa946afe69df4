package domain

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"obspy.org/pkg/runtests/internal/adapter"
	"obspy.org/pkg/runtests/internal/controller"
	m "obspy.org/pkg/runtests/internal/model"
	"obspy.org/pkg/runtests/internal/report"
)

const (
	slowestTestsLimit = 19

	versionAbsent  = "---"
	versionUnknown = "???"
)

var logEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// SessionInfo carries the run facts the report needs besides the outcomes.
type SessionInfo struct {
	Start    time.Time
	Finish   time.Time
	LogPath  string
	CIURL    string
	PRURL    string
	Hostname string
}

// ReportBuilder assembles the report document and its upload parameters.
type ReportBuilder interface {
	Build(ctx context.Context, outcomes []m.Outcome, info SessionInfo) (*report.Document, m.UploadParams, error)
}

type reportBuilder struct {
	catalog  m.Catalog
	fs       adapter.ProjectFSAdapter
	python   adapter.PythonAdapter
	host     adapter.HostAdapter
	versions adapter.VersionSource
	ui       controller.UI
}

// NewReportBuilder constructs a ReportBuilder.
func NewReportBuilder(
	catalog m.Catalog,
	fs adapter.ProjectFSAdapter,
	python adapter.PythonAdapter,
	host adapter.HostAdapter,
	versions adapter.VersionSource,
	ui controller.UI,
) ReportBuilder {
	return &reportBuilder{
		catalog:  catalog,
		fs:       fs,
		python:   python,
		host:     host,
		versions: versions,
		ui:       ui,
	}
}

func (b *reportBuilder) Build(ctx context.Context, outcomes []m.Outcome, info SessionInfo) (*report.Document, m.UploadParams, error) {
	if err := ctx.Err(); err != nil {
		return nil, m.UploadParams{}, err
	}

	groups := groupByModule(outcomes)

	var counts m.Counts
	for _, outcome := range outcomes {
		counts.Add(outcome)
	}

	installed, err := b.versions.Version(ctx)
	if err != nil {
		slog.Warn("failed to determine installed version", "error", err)

		installed = ""
	}

	doc := report.New()
	doc.Set("timestamp", int(info.Finish.Unix()))
	doc.Set("timetaken", info.Finish.Sub(info.Start).Seconds())

	if info.LogPath != "" {
		if log, ok := b.readLog(ctx, info.LogPath); ok {
			doc.Set("install_log", log)
		}
	}

	doc.Set("slowest_tests", slowestTests(outcomes))

	if info.CIURL != "" {
		doc.Set("ciurl", info.CIURL)
	}

	if info.PRURL != "" {
		doc.Set("prurl", info.PRURL)
	}

	obspy := report.New()
	obspy.Set("installed", installed)

	for _, module := range b.modules(groups) {
		obspy.Set(module, moduleInfo(installed, groups.outcomes[module]))
	}

	doc.Set("obspy", obspy)
	doc.Set("dependencies", b.dependencies(ctx))

	platform := b.platform(ctx, info.Hostname)
	doc.Set("platform", platform)

	doc.Set("tests", counts.Tests)
	doc.Set("failures", counts.Failures)
	doc.Set("errors", counts.Errors)
	doc.Set("skipped", counts.Skipped)

	details, err := skippedDetails(groups)
	if err != nil {
		slog.Error("failed to collect skipped test details", "error", err)
		b.ui.DisplayWarning(ctx, fmt.Sprintf("Cannot collect skipped test details: %v", err))

		details = []m.SkippedTest{}
	}

	doc.Set("skipped_tests_details", details)

	xml, err := report.Marshal(doc)
	if err != nil {
		slog.Error("failed to serialize report", "error", err)
		return nil, m.UploadParams{}, fmt.Errorf("failed to serialize report: %w", err)
	}

	params := m.UploadParams{
		Timestamp:     float64(info.Finish.UnixNano()) / float64(time.Second),
		System:        platformValue(platform, "system"),
		PythonVersion: platformValue(platform, "python_version"),
		Architecture:  platformValue(platform, "architecture"),
		Counts:        counts,
		Modules:       len(groups.order),
		XML:           string(xml),
	}

	return doc, params, nil
}

// readLog returns the escaped install log. Unreadable or non UTF-8 logs are
// reported and left out of the report.
func (b *reportBuilder) readLog(ctx context.Context, path string) (string, bool) {
	data, err := b.fs.ReadFile(m.Path(path))
	if err == nil && !utf8.Valid(data) {
		err = errors.New("log is not valid UTF-8")
	}

	if err != nil {
		slog.Warn("failed to read install log", "path", path, "error", err)
		b.ui.DisplayWarning(ctx, fmt.Sprintf("Cannot open log file %s", path))

		return "", false
	}

	return logEscaper.Replace(string(data)), true
}

// modules returns the sorted union of catalog modules and modules with outcomes.
func (b *reportBuilder) modules(groups moduleGroups) []string {
	seen := map[string]struct{}{}

	var modules []string

	for _, module := range append(b.catalog.AllModules(), groups.order...) {
		if _, ok := seen[module]; ok {
			continue
		}

		seen[module] = struct{}{}
		modules = append(modules, module)
	}

	sort.Strings(modules)

	return modules
}

func moduleInfo(installed string, outcomes []m.Outcome) *report.Document {
	info := report.New()
	info.Set("installed", installed)

	if len(outcomes) == 0 {
		return info
	}

	var (
		counts    m.Counts
		timetaken time.Duration
	)

	failures := report.New()
	errs := report.New()

	for _, outcome := range outcomes {
		counts.Add(outcome)
		timetaken += outcome.Duration

		switch outcome.Category {
		case m.Failed:
			failures.Set(fmt.Sprintf("f%d", failures.Len()), outcome.Text)
		case m.Errored:
			errs.Set(fmt.Sprintf("f%d", errs.Len()), outcome.Text)
		case m.Passed, m.Skipped:
		}
	}

	info.Set("timetaken", timetaken.Seconds())
	info.Set("tested", true)
	info.Set("tests", counts.Tests)
	info.Set("skipped", counts.Skipped)
	info.Set("errors", errs)
	info.Set("failures", failures)

	return info
}

func (b *reportBuilder) dependencies(ctx context.Context) *report.Document {
	deps := report.New()

	for _, dep := range b.catalog.Dependencies {
		version, err := b.python.ModuleVersion(ctx, dep.ImportName())

		switch {
		case errors.Is(err, adapter.ErrNoVersion):
			version = versionUnknown
		case err != nil:
			if !errors.Is(err, adapter.ErrModuleNotFound) {
				slog.Debug("failed to look up dependency version", "dependency", dep.Name, "error", err)
			}

			version = versionAbsent
		}

		deps.Set(dep.Name, version)
	}

	return deps
}

func (b *reportBuilder) platform(ctx context.Context, hostname string) *report.Document {
	platform := report.New()

	for _, fact := range []struct {
		key    string
		lookup func(context.Context) (string, error)
	}{
		{"system", b.host.System},
		{"release", b.host.Release},
		{"version", b.host.Version},
		{"machine", b.host.Machine},
		{"processor", b.host.Processor},
		{"python_version", b.python.PythonVersion},
		{"python_implementation", b.python.PythonImplementation},
		{"python_compiler", b.python.PythonCompiler},
		{"architecture", b.python.Architecture},
	} {
		platform.Set(fact.key, lookup(ctx, fact.key, fact.lookup))
	}

	if hostname == "" {
		hostname = lookup(ctx, "node", b.host.Hostname)
	}

	node, _, _ := strings.Cut(hostname, ".")
	platform.Set("node", node)

	return platform
}

// lookup runs one platform probe; any error or panic yields "".
func lookup(ctx context.Context, key string, fn func(context.Context) (string, error)) (value string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("platform lookup panicked", "key", key, "panic", r)

			value = ""
		}
	}()

	value, err := fn(ctx)
	if err != nil {
		slog.Debug("platform lookup failed", "key", key, "error", err)
		return ""
	}

	return value
}

func platformValue(platform *report.Document, key string) string {
	value, _ := platform.Get(key)
	s, _ := value.(string)

	return s
}

// moduleGroups partitions outcomes by owning module, keeping first-seen order.
type moduleGroups struct {
	order    []string
	outcomes map[string][]m.Outcome
}

func groupByModule(outcomes []m.Outcome) moduleGroups {
	groups := moduleGroups{outcomes: map[string][]m.Outcome{}}

	for _, outcome := range outcomes {
		module := moduleName(outcome.NodeID)
		if _, ok := groups.outcomes[module]; !ok {
			groups.order = append(groups.order, module)
		}

		groups.outcomes[module] = append(groups.outcomes[module], outcome)
	}

	return groups
}

// moduleName maps "obspy/io/mseed/tests/test_x.py::T::t" to "io.mseed".
func moduleName(nodeID string) string {
	parts := strings.Split(nodeID, "/")
	end := min(3, len(parts))

	if end <= 1 {
		return ""
	}

	return strings.ReplaceAll(strings.Join(parts[1:end], "."), ".tests", "")
}

// splitNode splits a node id into test module, class and test name.
func splitNode(nodeID string) (testModule, class, name string) {
	file, _, _ := strings.Cut(nodeID, "::")
	testModule = strings.ReplaceAll(strings.ReplaceAll(file, "/", "."), ".py", "")

	parts := strings.Split(nodeID[strings.LastIndex(nodeID, "/")+1:], "::")[1:]
	if len(parts) == 0 {
		return testModule, "", ""
	}

	name = parts[len(parts)-1]
	if len(parts) > 1 {
		class = parts[0]
	}

	return testModule, class, name
}

// slowestTests returns the slowest outcomes, slowest first.
func slowestTests(outcomes []m.Outcome) []m.SlowTest {
	sorted := make([]m.Outcome, 0, len(outcomes))

	for _, outcome := range outcomes {
		if !outcome.Collection {
			sorted = append(sorted, outcome)
		}
	}

	slices.SortStableFunc(sorted, func(a, b m.Outcome) int {
		return cmp.Compare(a.Duration, b.Duration)
	})

	slowest := make([]m.SlowTest, 0, min(slowestTestsLimit, len(sorted)))

	for i := len(sorted) - 1; i >= 0 && len(slowest) < slowestTestsLimit; i-- {
		parts := strings.Split(sorted[i].NodeID, "::")
		other := strings.ReplaceAll(strings.Join(parts[:len(parts)-1], "."), "/", ".")

		slowest = append(slowest, m.SlowTest{
			Duration: fmt.Sprintf("%0.3fs", sorted[i].Duration.Seconds()),
			ID:       fmt.Sprintf("%s (%s)", parts[len(parts)-1], other),
		})
	}

	return slowest
}

// skippedDetails lists every skipped outcome. A panic while assembling the
// list is returned as an error.
func skippedDetails(groups moduleGroups) (details []m.SkippedTest, err error) {
	defer func() {
		if r := recover(); r != nil {
			details, err = nil, fmt.Errorf("skipped test details: %v", r)
		}
	}()

	details = []m.SkippedTest{}

	for _, module := range groups.order {
		for _, outcome := range groups.outcomes[module] {
			if outcome.Category != m.Skipped {
				continue
			}

			testModule, class, name := splitNode(outcome.NodeID)
			details = append(details, m.SkippedTest{
				Module:     module,
				TestModule: testModule,
				Class:      class,
				Name:       name,
				Reason:     strings.ReplaceAll(outcome.SkipReason, "Skipped: ", ""),
			})
		}
	}

	return details, nil
}

package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"obspy.org/pkg/runtests/internal/adapter"
	adaptermocks "obspy.org/pkg/runtests/internal/adapter/mocks"
	controllermocks "obspy.org/pkg/runtests/internal/controller/mocks"
	m "obspy.org/pkg/runtests/internal/model"
	"obspy.org/pkg/runtests/internal/report"
)

type builderMocks struct {
	fs       *adaptermocks.MockProjectFSAdapter
	python   *adaptermocks.MockPythonAdapter
	host     *adaptermocks.MockHostAdapter
	versions *adaptermocks.MockVersionSource
	ui       *controllermocks.MockUI
}

func newBuilderMocks(t *testing.T) builderMocks {
	t.Helper()

	mocks := builderMocks{
		fs:       adaptermocks.NewMockProjectFSAdapter(t),
		python:   adaptermocks.NewMockPythonAdapter(t),
		host:     adaptermocks.NewMockHostAdapter(t),
		versions: adaptermocks.NewMockVersionSource(t),
		ui:       controllermocks.NewMockUI(t),
	}

	return mocks
}

// expectDefaults sets up a healthy host, interpreter and checkout.
func (b builderMocks) expectDefaults() {
	b.versions.On("Version", mock.Anything).Return("1.4.0", nil)
	b.expectPlatform()
}

func (b builderMocks) expectPlatform() {
	b.host.On("System", mock.Anything).Return("Linux", nil)
	b.host.On("Release", mock.Anything).Return("6.1.0", nil)
	b.host.On("Version", mock.Anything).Return("12.5", nil)
	b.host.On("Machine", mock.Anything).Return("x86_64", nil)
	b.host.On("Processor", mock.Anything).Return("x86_64", nil)
	b.python.On("PythonVersion", mock.Anything).Return("3.11.4", nil)
	b.python.On("PythonImplementation", mock.Anything).Return("CPython", nil)
	b.python.On("PythonCompiler", mock.Anything).Return("GCC 12.2.0", nil)
	b.python.On("Architecture", mock.Anything).Return("64bit", nil)
}

func (b builderMocks) builder(catalog m.Catalog) ReportBuilder {
	return NewReportBuilder(catalog, b.fs, b.python, b.host, b.versions, b.ui)
}

var testCatalog = m.Catalog{
	Package: "obspy",
	Modules: []string{"io.mseed", "core"},
}

func testSessionInfo() SessionInfo {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	return SessionInfo{
		Start:    start,
		Finish:   start.Add(90*time.Second + 250*time.Millisecond),
		Hostname: "builder.example.org",
	}
}

func TestReportBuilder_Build(t *testing.T) {
	mocks := newBuilderMocks(t)
	mocks.expectDefaults()

	outcomes := []m.Outcome{
		{NodeID: "obspy/core/tests/test_stats.py::StatsTestCase::test_pass", Duration: time.Second, Category: m.Passed},
		{NodeID: "obspy/core/tests/test_stats.py::StatsTestCase::test_fail", Duration: 500 * time.Millisecond, Category: m.Failed, Text: "boom"},
	}

	doc, params, err := mocks.builder(testCatalog).Build(context.Background(), outcomes, testSessionInfo())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"timestamp", "timetaken", "slowest_tests", "obspy", "dependencies", "platform",
		"tests", "failures", "errors", "skipped", "skipped_tests_details",
	}, doc.Keys())

	obspy := doc.Child("obspy")
	require.NotNil(t, obspy)
	assert.Equal(t, []string{"installed", "core", "io.mseed"}, obspy.Keys())

	core := obspy.Child("core")
	require.NotNil(t, core)
	assert.Equal(t, []string{"installed", "timetaken", "tested", "tests", "skipped", "errors", "failures"}, core.Keys())
	assertValue(t, core, "tests", 2)
	assertValue(t, core, "timetaken", 1.5)
	assertValue(t, core, "tested", true)
	assertValue(t, core, "installed", "1.4.0")
	assertValue(t, core.Child("failures"), "f0", "boom")
	assert.Equal(t, 0, core.Child("errors").Len())

	mseed := obspy.Child("io.mseed")
	require.NotNil(t, mseed)
	assert.Equal(t, []string{"installed"}, mseed.Keys())

	assertValue(t, doc, "tests", 2)
	assertValue(t, doc, "failures", 1)
	assertValue(t, doc, "errors", 0)
	assertValue(t, doc, "skipped", 0)
	assertValue(t, doc, "timestamp", int(testSessionInfo().Finish.Unix()))
	assertValue(t, doc, "timetaken", 90.25)
	assertValue(t, doc.Child("platform"), "node", "builder")

	assert.Equal(t, m.Counts{Tests: 2, Failures: 1}, params.Counts)
	assert.Equal(t, 1, params.Modules)
	assert.Equal(t, "Linux", params.System)
	assert.Equal(t, "3.11.4", params.PythonVersion)
	assert.Equal(t, "64bit", params.Architecture)
	finish := testSessionInfo().Finish
	assert.InDelta(t, float64(finish.UnixNano())/float64(time.Second), params.Timestamp, 1e-6)
	assert.InDelta(t, 0.25, params.Timestamp-float64(finish.Unix()), 1e-6)
	assert.Contains(t, params.XML, "<failures><f0>boom</f0></failures>")
	assert.Contains(t, params.XML, "<io.mseed><installed>1.4.0</installed></io.mseed>")
}

func TestReportBuilder_Build_CountsAreConsistent(t *testing.T) {
	mocks := newBuilderMocks(t)
	mocks.expectDefaults()

	categories := []m.Category{m.Passed, m.Failed, m.Errored, m.Skipped}
	modules := []string{"core", "io/mseed", "signal", "clients/fdsn"}

	var outcomes []m.Outcome

	for i := 0; i < 37; i++ {
		module := modules[i%len(modules)]
		outcomes = append(outcomes, m.Outcome{
			NodeID:     fmt.Sprintf("obspy/%s/tests/test_x.py::test_%d", module, i),
			Duration:   time.Duration(i) * time.Millisecond,
			Category:   categories[(i/len(modules))%len(categories)],
			Text:       fmt.Sprintf("text %d", i),
			SkipReason: "Skipped: no data",
		})
	}

	doc, params, err := mocks.builder(testCatalog).Build(context.Background(), outcomes, testSessionInfo())
	require.NoError(t, err)

	var tests, failures, errs, skipped int

	obspy := doc.Child("obspy")
	for _, key := range obspy.Keys() {
		info := obspy.Child(key)
		if info == nil || info.Len() == 1 {
			continue
		}

		value, _ := info.Get("tests")
		tests += value.(int)
		value, _ = info.Get("skipped")
		skipped += value.(int)
		failures += info.Child("failures").Len()
		errs += info.Child("errors").Len()
	}

	assertValue(t, doc, "tests", tests)
	assertValue(t, doc, "failures", failures)
	assertValue(t, doc, "errors", errs)
	assertValue(t, doc, "skipped", skipped)
	assert.Equal(t, m.Counts{Tests: tests, Failures: failures, Errors: errs, Skipped: skipped}, params.Counts)
	assert.Equal(t, len(outcomes), tests)
	assert.Equal(t, 4, params.Modules)

	// modules missing from the catalog still show up
	assert.NotNil(t, obspy.Child("signal"))
	assert.NotNil(t, obspy.Child("clients.fdsn"))

	details, _ := doc.Get("skipped_tests_details")
	assert.Len(t, details, skipped)
}

func TestReportBuilder_Build_ErrorsAndFailuresKeepSeparateCounters(t *testing.T) {
	mocks := newBuilderMocks(t)
	mocks.expectDefaults()

	outcomes := []m.Outcome{
		{NodeID: "obspy/core/tests/test_a.py::test_1", Category: m.Errored, Text: "e1"},
		{NodeID: "obspy/core/tests/test_a.py::test_2", Category: m.Failed, Text: "f1"},
		{NodeID: "obspy/core/tests/test_a.py::test_3", Category: m.Errored, Text: "e2"},
	}

	doc, _, err := mocks.builder(testCatalog).Build(context.Background(), outcomes, testSessionInfo())
	require.NoError(t, err)

	core := doc.Child("obspy").Child("core")
	assert.Equal(t, []string{"f0", "f1"}, core.Child("errors").Keys())
	assertValue(t, core.Child("errors"), "f1", "e2")
	assert.Equal(t, []string{"f0"}, core.Child("failures").Keys())
}

func TestReportBuilder_Build_Dependencies(t *testing.T) {
	mocks := newBuilderMocks(t)
	mocks.expectDefaults()

	catalog := testCatalog
	catalog.Dependencies = []m.Dependency{
		{Name: "numpy"},
		{Name: "cartopy"},
		{Name: "flake8"},
		{Name: "pep8-naming", Import: "pep8ext_naming"},
		{Name: "broken"},
	}

	mocks.python.On("ModuleVersion", mock.Anything, "numpy").Return("1.26.0", nil)
	mocks.python.On("ModuleVersion", mock.Anything, "cartopy").Return("", fmt.Errorf("probe: %w", adapter.ErrModuleNotFound))
	mocks.python.On("ModuleVersion", mock.Anything, "flake8").Return("", adapter.ErrNoVersion)
	mocks.python.On("ModuleVersion", mock.Anything, "pep8ext_naming").Return("0.13.3", nil)
	mocks.python.On("ModuleVersion", mock.Anything, "broken").Return("", errors.New("interpreter crashed"))

	doc, _, err := mocks.builder(catalog).Build(context.Background(), nil, testSessionInfo())
	require.NoError(t, err)

	deps := doc.Child("dependencies")
	assert.Equal(t, []string{"numpy", "cartopy", "flake8", "pep8-naming", "broken"}, deps.Keys())
	assertValue(t, deps, "numpy", "1.26.0")
	assertValue(t, deps, "cartopy", "---")
	assertValue(t, deps, "flake8", "???")
	assertValue(t, deps, "pep8-naming", "0.13.3")
	assertValue(t, deps, "broken", "---")
}

func TestReportBuilder_Build_PlatformFailuresYieldEmptyFields(t *testing.T) {
	mocks := newBuilderMocks(t)
	mocks.versions.On("Version", mock.Anything).Return("1.4.0", nil)

	mocks.host.On("System", mock.Anything).Return("Linux", nil)
	mocks.host.On("Release", mock.Anything).Return("", errors.New("no release"))
	mocks.host.On("Version", mock.Anything).Return("12.5", nil)
	mocks.host.On("Machine", mock.Anything).Return("x86_64", nil)
	mocks.host.On("Processor", mock.Anything).Return("", nil).Run(func(mock.Arguments) {
		panic("cpu probe exploded")
	})
	mocks.host.On("Hostname", mock.Anything).Return("fallback.local", nil)
	mocks.python.On("PythonVersion", mock.Anything).Return("", errors.New("no interpreter"))
	mocks.python.On("PythonImplementation", mock.Anything).Return("CPython", nil)
	mocks.python.On("PythonCompiler", mock.Anything).Return("GCC 12.2.0", nil)
	mocks.python.On("Architecture", mock.Anything).Return("64bit", nil)

	info := testSessionInfo()
	info.Hostname = ""

	doc, params, err := mocks.builder(testCatalog).Build(context.Background(), nil, info)
	require.NoError(t, err)

	platform := doc.Child("platform")
	assert.Equal(t, []string{
		"system", "release", "version", "machine", "processor",
		"python_version", "python_implementation", "python_compiler", "architecture", "node",
	}, platform.Keys())
	assertValue(t, platform, "system", "Linux")
	assertValue(t, platform, "release", "")
	assertValue(t, platform, "processor", "")
	assertValue(t, platform, "python_version", "")
	assertValue(t, platform, "node", "fallback")
	assert.Empty(t, params.PythonVersion)
}

func TestReportBuilder_Build_InstalledVersionFailure(t *testing.T) {
	mocks := newBuilderMocks(t)
	mocks.expectPlatform()
	mocks.versions.On("Version", mock.Anything).Return("", errors.New("not a checkout"))

	doc, _, err := mocks.builder(testCatalog).Build(context.Background(), nil, testSessionInfo())
	require.NoError(t, err)

	assertValue(t, doc.Child("obspy"), "installed", "")
}

func TestReportBuilder_Build_InstallLog(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		err     error
		want    string
		present bool
	}{
		{name: "escaped", data: []byte("pip install <obspy> & done"), want: "pip install &lt;obspy&gt; &amp; done", present: true},
		{name: "unreadable", err: errors.New("permission denied")},
		{name: "not utf-8", data: []byte{0xff, 0xfe, 'x'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := newBuilderMocks(t)
			mocks.expectDefaults()
			mocks.fs.On("ReadFile", m.Path("install.log")).Return(tt.data, tt.err)

			if !tt.present {
				mocks.ui.On("DisplayWarning", mock.Anything, "Cannot open log file install.log").Once()
			}

			info := testSessionInfo()
			info.LogPath = "install.log"
			info.CIURL = "https://ci.example.org/build/1"

			doc, params, err := mocks.builder(testCatalog).Build(context.Background(), nil, info)
			require.NoError(t, err)

			value, ok := doc.Get("install_log")
			assert.Equal(t, tt.present, ok)

			if tt.present {
				assert.Equal(t, tt.want, value)
				assert.Equal(t, []string{"timestamp", "timetaken", "install_log", "slowest_tests", "ciurl"}, doc.Keys()[:5])
				assert.Contains(t, params.XML, "<install_log>pip install &amp;lt;obspy&amp;gt; &amp;amp; done</install_log>")
			}
		})
	}
}

func TestReportBuilder_Build_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newBuilderMocks(t).builder(testCatalog).Build(ctx, nil, testSessionInfo())
	require.ErrorIs(t, err, context.Canceled)
}

func TestSlowestTests(t *testing.T) {
	var outcomes []m.Outcome

	for i := 1; i <= 25; i++ {
		outcomes = append(outcomes, m.Outcome{
			NodeID:   fmt.Sprintf("obspy/core/tests/test_a.py::Case::test_%02d", i),
			Duration: time.Duration(i) * time.Millisecond,
		})
	}

	outcomes = append(outcomes, m.Outcome{
		NodeID:     "obspy/io/mseed/tests/test_mseed.py",
		Duration:   time.Hour,
		Category:   m.Errored,
		Collection: true,
	})

	slowest := slowestTests(outcomes)

	require.Len(t, slowest, 19)
	assert.Equal(t, m.SlowTest{Duration: "0.025s", ID: "test_25 (obspy.core.tests.test_a.py.Case)"}, slowest[0])
	assert.Equal(t, m.SlowTest{Duration: "0.007s", ID: "test_07 (obspy.core.tests.test_a.py.Case)"}, slowest[18])
}

func TestSlowestTests_FewerThanLimit(t *testing.T) {
	slowest := slowestTests([]m.Outcome{
		{NodeID: "obspy/core/tests/test_a.py::test_fast", Duration: time.Millisecond},
		{NodeID: "obspy/core/tests/test_a.py::test_slow", Duration: 1500 * time.Millisecond},
	})

	assert.Equal(t, []m.SlowTest{
		{Duration: "1.500s", ID: "test_slow (obspy.core.tests.test_a.py)"},
		{Duration: "0.001s", ID: "test_fast (obspy.core.tests.test_a.py)"},
	}, slowest)
	assert.Empty(t, slowestTests(nil))
}

func TestModuleName(t *testing.T) {
	tests := []struct {
		nodeID string
		want   string
	}{
		{nodeID: "obspy/core/tests/test_stats.py::StatsTestCase::test_init", want: "core"},
		{nodeID: "obspy/io/mseed/tests/test_mseed.py::test_read", want: "io.mseed"},
		{nodeID: "obspy/clients/fdsn/tests/test_client.py", want: "clients.fdsn"},
		{nodeID: "obspy/signal/tests/test_filter.py::test_x", want: "signal"},
		{nodeID: "obspy", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.nodeID, func(t *testing.T) {
			assert.Equal(t, tt.want, moduleName(tt.nodeID))
		})
	}
}

func TestSplitNode(t *testing.T) {
	tests := []struct {
		nodeID     string
		testModule string
		class      string
		name       string
	}{
		{
			nodeID:     "obspy/core/tests/test_stats.py::StatsTestCase::test_init",
			testModule: "obspy.core.tests.test_stats",
			class:      "StatsTestCase",
			name:       "test_init",
		},
		{
			nodeID:     "obspy/io/mseed/tests/test_mseed.py::test_read",
			testModule: "obspy.io.mseed.tests.test_mseed",
			name:       "test_read",
		},
		{
			nodeID:     "obspy/io/mseed/tests/test_mseed.py",
			testModule: "obspy.io.mseed.tests.test_mseed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.nodeID, func(t *testing.T) {
			testModule, class, name := splitNode(tt.nodeID)
			assert.Equal(t, tt.testModule, testModule)
			assert.Equal(t, tt.class, class)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestSkippedDetails(t *testing.T) {
	groups := groupByModule([]m.Outcome{
		{NodeID: "obspy/core/tests/test_a.py::Case::test_skip", Category: m.Skipped, SkipReason: "Skipped: no network"},
		{NodeID: "obspy/core/tests/test_a.py::test_pass", Category: m.Passed},
		{NodeID: "obspy/io/mseed/tests/test_b.py::test_skip", Category: m.Skipped, SkipReason: "needs libmseed"},
	})

	details, err := skippedDetails(groups)
	require.NoError(t, err)

	assert.Equal(t, []m.SkippedTest{
		{Module: "core", TestModule: "obspy.core.tests.test_a", Class: "Case", Name: "test_skip", Reason: "no network"},
		{Module: "io.mseed", TestModule: "obspy.io.mseed.tests.test_b", Name: "test_skip", Reason: "needs libmseed"},
	}, details)
	assert.Equal(t,
		"[('core', 'obspy.core.tests.test_a', 'Case', 'test_skip', 'no network'), "+
			"('io.mseed', 'obspy.io.mseed.tests.test_b', '', 'test_skip', 'needs libmseed')]",
		report.Format(details))
}

func assertValue(t *testing.T, doc *report.Document, key string, want any) {
	t.Helper()

	require.NotNil(t, doc)

	got, ok := doc.Get(key)
	require.True(t, ok, "missing key %q", key)
	assert.Equal(t, want, got)
}

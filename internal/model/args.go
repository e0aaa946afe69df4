// Package model defines the data structures shared by the test runner shim.
package model

// DefaultServer is the report server used when neither flag nor environment override it.
const DefaultServer = "tests.obspy.org"

// Path represents a file system path relative to the project root.
type Path string

// Specifier is a dotted module or test path in the legacy addressing scheme,
// e.g. "io.mseed" or "obspy.core.tests.test_stats.StatsTestCase.test_init".
type Specifier string

// LegacyArgs holds the parsed command line of the legacy runner.
type LegacyArgs struct {
	Version          bool
	Verbose          bool
	Quiet            bool
	RaiseAllWarnings bool

	AllModules bool
	Exclude    []Specifier
	Tests      []Specifier

	TimeIt  bool
	Slowest int
	Profile bool

	Report  bool
	DontAsk bool
	Server  string
	Node    string
	Log     string
	CIURL   string
	PRURL   string

	Tutorial             bool
	NoFlake8             bool
	KeepImages           bool
	KeepOnlyFailedImages bool
}

// ReportEnv is the environment side of the reporting switches.
type ReportEnv struct {
	// Requested is true when the report-enable variable is present, whatever its value.
	Requested bool
	// Server is the report-server override variable, empty when unset.
	Server string
}

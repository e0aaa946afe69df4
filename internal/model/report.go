package model

import (
	"net/url"
	"strconv"
	"time"
)

// Category is the outcome category of a single executed test.
type Category int

const (
	// Passed indicates the test succeeded.
	Passed Category = iota
	// Failed indicates an assertion failure.
	Failed
	// Errored indicates an error outside the assertion, including collection errors.
	Errored
	// Skipped indicates the test did not run.
	Skipped
)

func (c Category) String() string {
	switch c {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Errored:
		return "errored"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// TestCase is a raw per-test record as emitted by the engine's result file.
type TestCase struct {
	File      string
	ClassName string
	Name      string
	Duration  time.Duration
	Category  Category
	Message   string
	Text      string
}

// Outcome is a Test Outcome Record with its identity resolved to an engine node id.
type Outcome struct {
	NodeID   string
	Duration time.Duration
	Category Category
	// Text is the failure text for failed and errored outcomes.
	Text string
	// SkipReason is the raw skip message for skipped outcomes.
	SkipReason string
	// Collection marks a synthetic record standing for a module that could not be collected.
	Collection bool
}

// Counts holds the aggregate outcome counts of a run.
type Counts struct {
	Tests    int
	Failures int
	Errors   int
	Skipped  int
}

// Add classifies one outcome into the counts.
func (c *Counts) Add(outcome Outcome) {
	c.Tests++

	switch outcome.Category {
	case Failed:
		c.Failures++
	case Errored:
		c.Errors++
	case Skipped:
		c.Skipped++
	case Passed:
	}
}

// Failed reports whether any failure or error was counted.
func (c Counts) Failed() bool {
	return c.Failures > 0 || c.Errors > 0
}

// SlowTest is one entry of the slowest tests list.
type SlowTest struct {
	Duration string
	ID       string
}

// SkippedTest details one skipped test.
type SkippedTest struct {
	Module     string
	TestModule string
	Class      string
	Name       string
	Reason     string
}

// UploadParams is the flat, form-encodable subset of the report document.
type UploadParams struct {
	Timestamp     float64
	System        string
	PythonVersion string
	Architecture  string
	Counts        Counts
	Modules       int
	XML           string
}

// Values returns the parameters as form values.
func (p UploadParams) Values() url.Values {
	values := url.Values{}
	values.Set("timestamp", strconv.FormatFloat(p.Timestamp, 'f', -1, 64))
	values.Set("system", p.System)
	values.Set("python_version", p.PythonVersion)
	values.Set("architecture", p.Architecture)
	values.Set("tests", strconv.Itoa(p.Counts.Tests))
	values.Set("failures", strconv.Itoa(p.Counts.Failures))
	values.Set("errors", strconv.Itoa(p.Counts.Errors))
	values.Set("modules", strconv.Itoa(p.Modules))
	values.Set("xml", p.XML)

	return values
}

// Encode returns the URL-form-encoded payload.
func (p UploadParams) Encode() []byte {
	return []byte(p.Values().Encode())
}

// ModuleTiming is the accumulated run time of one module.
type ModuleTiming struct {
	Module   string
	Tests    int
	Duration time.Duration
}

// Average returns the mean duration per test.
func (t ModuleTiming) Average() time.Duration {
	if t.Tests == 0 {
		return 0
	}

	return t.Duration / time.Duration(t.Tests)
}

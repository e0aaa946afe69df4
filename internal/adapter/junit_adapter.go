package adapter

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/spf13/afero"
	m "obspy.org/pkg/runtests/internal/model"
)

// ResultReader loads per-test records from an engine result file.
type ResultReader interface {
	ReadResults(path m.Path) ([]m.TestCase, error)
}

// testCase is a <testcase> element of a JUnit XML result file.
type testCase struct {
	ClassName string  `xml:"classname,attr"`
	Name      string  `xml:"name,attr"`
	File      string  `xml:"file,attr"`
	Time      string  `xml:"time,attr"`
	Failure   *detail `xml:"failure"`
	Error     *detail `xml:"error"`
	Skipped   *detail `xml:"skipped"`
}

// detail is a <failure>, <error> or <skipped> element.
type detail struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

// JUnitResultReader reads the JUnit XML file written by the engine.
type JUnitResultReader struct {
	fs afero.Fs
}

// NewJUnitResultReader constructs a reader; a nil fs means the operating system filesystem.
func NewJUnitResultReader(fs afero.Fs) *JUnitResultReader {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &JUnitResultReader{fs: fs}
}

// ReadResults returns one record per <testcase>, in document order. The
// suite nesting is ignored so both <testsuites> and <testsuite> roots work.
func (r *JUnitResultReader) ReadResults(path m.Path) ([]m.TestCase, error) {
	data, err := afero.ReadFile(r.fs, string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read result file %s: %w", path, err)
	}

	return parseJUnit(data)
}

func parseJUnit(data []byte) ([]m.TestCase, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var cases []m.TestCase

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return cases, nil
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse result file: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "testcase" {
			continue
		}

		var tc testCase
		if err := dec.DecodeElement(&tc, &start); err != nil {
			return nil, fmt.Errorf("failed to parse testcase: %w", err)
		}

		cases = append(cases, tc.toModel())
	}
}

func (tc testCase) toModel() m.TestCase {
	out := m.TestCase{
		File:      tc.File,
		ClassName: tc.ClassName,
		Name:      tc.Name,
		Duration:  parseSeconds(tc.Time),
		Category:  m.Passed,
	}

	var d *detail

	switch {
	case tc.Failure != nil:
		out.Category, d = m.Failed, tc.Failure
	case tc.Error != nil:
		out.Category, d = m.Errored, tc.Error
	case tc.Skipped != nil:
		out.Category, d = m.Skipped, tc.Skipped
	}

	if d != nil {
		out.Message = cleanText(d.Message)
		out.Text = cleanText(strings.TrimSpace(d.Text))
	}

	return out
}

// cleanText drops terminal color codes. The engine writes the escape
// character, which XML cannot carry, as the literal "#x1B".
func cleanText(s string) string {
	return stripansi.Strip(strings.ReplaceAll(s, "#x1B", "\x1b"))
}

func parseSeconds(value string) time.Duration {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}

	return time.Duration(math.Round(seconds * float64(time.Second)))
}

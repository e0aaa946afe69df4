package report

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	m "obspy.org/pkg/runtests/internal/model"
)

// RootTag is the name of the document element.
const RootTag = "report"

// ErrInvalidKey is returned when a key sanitizes to an empty tag name.
var ErrInvalidKey = errors.New("invalid report key")

// Marshal serializes the document as one element per key under a <report> root.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer

	enc := xml.NewEncoder(&buf)
	root := xml.StartElement{Name: xml.Name{Local: RootTag}}

	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}

	if err := encodeEntries(enc, doc); err != nil {
		return nil, err
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}

	if err := enc.Flush(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// TagName strips a parenthetical suffix and surrounding blanks from a key.
func TagName(key string) string {
	name, _, _ := strings.Cut(key, "(")
	return strings.TrimSpace(name)
}

func encodeEntries(enc *xml.Encoder, doc *Document) error {
	if doc == nil {
		return nil
	}

	for _, entry := range doc.entries {
		name := TagName(entry.Key)
		if name == "" {
			return fmt.Errorf("%w: %q", ErrInvalidKey, entry.Key)
		}

		if err := encodeElement(enc, name, entry.Value); err != nil {
			return err
		}
	}

	return nil
}

func encodeElement(enc *xml.Encoder, name string, value any) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	switch v := value.(type) {
	case *Document:
		if err := encodeEntries(enc, v); err != nil {
			return err
		}
	case nil:
	case string:
		if err := enc.EncodeToken(xml.CharData(v)); err != nil {
			return err
		}
	default:
		if err := enc.EncodeToken(xml.CharData(Format(v))); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// Format stringifies a non-string scalar or tuple list the way the report
// server expects to read it back: Python literal notation.
func Format(value any) string {
	switch v := value.(type) {
	case nil:
		return "None"
	case string:
		return quote(v)
	case bool:
		if v {
			return "True"
		}

		return "False"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	case []string:
		items := make([]string, 0, len(v))
		for _, s := range v {
			items = append(items, quote(s))
		}

		return "[" + strings.Join(items, ", ") + "]"
	case []m.SlowTest:
		items := make([]string, 0, len(v))
		for _, s := range v {
			items = append(items, tuple(s.Duration, s.ID))
		}

		return "[" + strings.Join(items, ", ") + "]"
	case []m.SkippedTest:
		items := make([]string, 0, len(v))
		for _, s := range v {
			items = append(items, tuple(s.Module, s.TestModule, s.Class, s.Name, s.Reason))
		}

		return "[" + strings.Join(items, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}

func tuple(fields ...string) string {
	items := make([]string, 0, len(fields))
	for _, f := range fields {
		items = append(items, quote(f))
	}

	return "(" + strings.Join(items, ", ") + ")"
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	if f != 0 {
		exp := math.Floor(math.Log10(math.Abs(f)))
		if exp < -4 || exp >= 16 {
			return strconv.FormatFloat(f, 'e', -1, 64)
		}
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// quote renders s as a Python string literal.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder

	b.WriteByte(q)

	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte(q)

	return b.String()
}

package domain

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"obspy.org/pkg/runtests/internal/adapter"
	m "obspy.org/pkg/runtests/internal/model"
)

// ErrUnresolvableSpecifier is returned when the first segment of a specifier
// names neither a directory nor a file.
var ErrUnresolvableSpecifier = errors.New("cannot resolve module specifier")

// Resolver maps legacy dotted specifiers onto engine node ids by probing the
// project layout.
type Resolver interface {
	// Resolve turns e.g. "pkg.sub.tests.test_x.Case.test" into
	// "pkg/sub/tests/test_x.py::Case::test".
	Resolve(spec m.Specifier) (string, error)
	// NodeID resolves the identity of a result file record.
	NodeID(tc m.TestCase) (string, error)
}

type resolver struct {
	fs  adapter.ProjectFSAdapter
	pkg string
}

// NewResolver constructs a Resolver. Specifiers that do not resolve from the
// project root are retried below pkg, so "io.mseed" finds "obspy/io/mseed".
func NewResolver(fs adapter.ProjectFSAdapter, pkg string) Resolver {
	return &resolver{fs: fs, pkg: pkg}
}

func (r *resolver) Resolve(spec m.Specifier) (string, error) {
	segments := strings.Split(string(spec), ".")

	nodeID, err := r.walk(segments)
	if err == nil {
		return nodeID, nil
	}

	if r.pkg != "" && segments[0] != r.pkg && r.exists(path.Join(r.pkg, segments[0])) {
		if nodeID, retryErr := r.walk(append([]string{r.pkg}, segments...)); retryErr == nil {
			return nodeID, nil
		}
	}

	return "", fmt.Errorf("%w: %s", err, spec)
}

// walk consumes directories, then at most one file, then selectors.
func (r *resolver) walk(segments []string) (string, error) {
	var (
		parts     []string
		selectors []string
	)

	for _, segment := range segments {
		if segment == "" {
			return "", ErrUnresolvableSpecifier
		}

		if len(selectors) == 0 && !strings.HasSuffix(last(parts), ".py") {
			dir := path.Join(append(parts, segment)...)
			if r.fs.IsDir(m.Path(dir)) {
				parts = append(parts, segment)
				continue
			}

			if r.fs.IsFile(m.Path(dir + ".py")) {
				parts = append(parts, segment+".py")
				continue
			}
		}

		if len(parts) == 0 {
			return "", ErrUnresolvableSpecifier
		}

		selectors = append(selectors, segment)
	}

	return strings.Join(append([]string{path.Join(parts...)}, selectors...), "::"), nil
}

func (r *resolver) NodeID(tc m.TestCase) (string, error) {
	if tc.File != "" {
		return fileNodeID(tc), nil
	}

	if tc.ClassName == "" {
		return r.walk(strings.Split(tc.Name, "."))
	}

	nodeID, err := r.walk(strings.Split(tc.ClassName, "."))
	if err != nil {
		return "", err
	}

	return nodeID + "::" + tc.Name, nil
}

// fileNodeID builds the node id from the record's file, using whatever the
// class name carries beyond the file's module path as class selectors.
func fileNodeID(tc m.TestCase) string {
	file := path.Clean(strings.ReplaceAll(tc.File, "\\", "/"))
	module := strings.ReplaceAll(strings.TrimSuffix(file, ".py"), "/", ".")

	parts := []string{file}
	if rest, ok := strings.CutPrefix(tc.ClassName, module+"."); ok && rest != "" {
		parts = append(parts, strings.Split(rest, ".")...)
	}

	if tc.Name != "" {
		parts = append(parts, tc.Name)
	}

	return strings.Join(parts, "::")
}

func (r *resolver) exists(p string) bool {
	return r.fs.IsDir(m.Path(p)) || r.fs.IsFile(m.Path(p+".py"))
}

func last(parts []string) string {
	if len(parts) == 0 {
		return ""
	}

	return parts[len(parts)-1]
}

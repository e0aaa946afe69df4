package adapter

import (
	_ "embed"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
	m "obspy.org/pkg/runtests/internal/model"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// CatalogLoader loads the module discovery metadata.
type CatalogLoader interface {
	// Load reads the catalog at path, or the built-in catalog when path is empty.
	Load(path m.Path) (m.Catalog, error)
}

// YAMLCatalogLoader reads catalogs in YAML.
type YAMLCatalogLoader struct {
	fs afero.Fs
}

// NewYAMLCatalogLoader constructs a loader; a nil fs means the operating system filesystem.
func NewYAMLCatalogLoader(fs afero.Fs) *YAMLCatalogLoader {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &YAMLCatalogLoader{fs: fs}
}

// Load reads the catalog at path, or the built-in catalog when path is empty.
func (l *YAMLCatalogLoader) Load(path m.Path) (m.Catalog, error) {
	data := defaultCatalog

	if path != "" {
		var err error

		data, err = afero.ReadFile(l.fs, string(path))
		if err != nil {
			return m.Catalog{}, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
	}

	var catalog m.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return m.Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return catalog, nil
}

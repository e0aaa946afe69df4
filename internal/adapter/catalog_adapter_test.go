package adapter

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "obspy.org/pkg/runtests/internal/model"
)

func TestYAMLCatalogLoader_Default(t *testing.T) {
	catalog, err := NewYAMLCatalogLoader(afero.NewMemMapFs()).Load("")
	require.NoError(t, err)

	assert.Equal(t, "obspy", catalog.Package)
	assert.Contains(t, catalog.Modules, "io.mseed")
	assert.Contains(t, catalog.NetworkModules, "clients.fdsn")
	assert.Len(t, catalog.AllModules(), len(catalog.Modules)+len(catalog.NetworkModules))
	assert.Len(t, catalog.Dependencies, 20)
	assert.Contains(t, catalog.Dependencies, m.Dependency{Name: "pep8-naming", Import: "pep8ext_naming"})
}

func TestYAMLCatalogLoader_File(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "catalog.yaml", []byte(`
package: pkg
modules: [modA, modB]
network_modules: [modB, net]
dependencies:
  - name: numpy
`), 0o644))

	catalog, err := NewYAMLCatalogLoader(fs).Load("catalog.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{"modA", "modB", "net"}, catalog.AllModules())
	assert.Equal(t, "numpy", catalog.Dependencies[0].ImportName())
}

func TestYAMLCatalogLoader_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	loader := NewYAMLCatalogLoader(fs)

	_, err := loader.Load("missing.yaml")
	require.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte("modules: {"), 0o644))

	_, err = loader.Load("bad.yaml")
	require.Error(t, err)
}

package model

// Dependency is an optional or hard dependency whose version goes into the report.
type Dependency struct {
	Name string `yaml:"name"`
	// Import is the importable name when it differs from Name (e.g. pep8-naming).
	Import string `yaml:"import,omitempty"`
}

// ImportName returns the name used to import the dependency.
func (d Dependency) ImportName() string {
	if d.Import != "" {
		return d.Import
	}

	return d.Name
}

// Catalog is the module discovery metadata the runner consumes.
type Catalog struct {
	Package        string       `yaml:"package"`
	Modules        []string     `yaml:"modules"`
	NetworkModules []string     `yaml:"network_modules"`
	Dependencies   []Dependency `yaml:"dependencies"`
}

// AllModules returns the canonical list of all known modules, network modules included.
func (c Catalog) AllModules() []string {
	seen := make(map[string]struct{}, len(c.Modules)+len(c.NetworkModules))
	out := make([]string, 0, len(c.Modules)+len(c.NetworkModules))

	for _, list := range [][]string{c.Modules, c.NetworkModules} {
		for _, module := range list {
			if _, ok := seen[module]; ok {
				continue
			}

			seen[module] = struct{}{}
			out = append(out, module)
		}
	}

	return out
}

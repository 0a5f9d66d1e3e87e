package types

import "strings"

// Dependency is a single package specifier handed to the installer
type Dependency struct {
	Name    string
	Version string
}

// String renders the specifier in name[@version] form
func (d Dependency) String() string {
	if d.Version == "" {
		return d.Name
	}
	return d.Name + "@" + d.Version
}

// ParseDependency splits a name[@version] specifier. Scoped names keep their
// leading "@".
func ParseDependency(spec string) Dependency {
	at := strings.LastIndex(spec, "@")
	if at <= 0 {
		return Dependency{Name: spec}
	}
	return Dependency{Name: spec[:at], Version: spec[at+1:]}
}

// DependencySet is an ordered list of specifiers. Entries are kept in
// insertion order and never deduplicated.
type DependencySet []Dependency

// Add appends specifiers in order
func (s *DependencySet) Add(specs ...string) {
	for _, spec := range specs {
		*s = append(*s, ParseDependency(spec))
	}
}

// Strings returns the specifiers as installer arguments
func (s DependencySet) Strings() []string {
	out := make([]string, len(s))
	for i, d := range s {
		out[i] = d.String()
	}
	return out
}

// Names returns the bare package names
func (s DependencySet) Names() []string {
	out := make([]string, len(s))
	for i, d := range s {
		out[i] = d.Name
	}
	return out
}

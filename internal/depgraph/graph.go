// Package depgraph describes the resolved dependency graph handed over by an
// external package manager, and loads it from JSON, YAML or TOML documents.
package depgraph

import (
	"fmt"
	"path/filepath"

	"golang.org/x/mod/semver"
)

// SchemaVersion is the graph document schema understood by this package.
const SchemaVersion = "v1"

// Payload kinds accepted in a dependency's "libman" entry.
const (
	KindExportRoot = "export-root"
	KindMetadata   = "metadata"
)

// Graph is an already-resolved dependency graph. Dependencies are kept in
// document order.
type Graph struct {
	Schema       string       `json:"schema,omitempty" yaml:"schema,omitempty" toml:"schema,omitempty"`
	Dependencies []Dependency `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
}

// Dependency is a single upstream dependency as the provider sees it.
type Dependency struct {
	Name         string       `json:"name" yaml:"name" toml:"name"`
	Root         string       `json:"root,omitempty" yaml:"root,omitempty" toml:"root,omitempty"`
	Requires     []string     `json:"requires,omitempty" yaml:"requires,omitempty" toml:"requires,omitempty"`
	IncludePaths []string     `json:"include_paths,omitempty" yaml:"include_paths,omitempty" toml:"include_paths,omitempty"`
	Defines      []string     `json:"defines,omitempty" yaml:"defines,omitempty" toml:"defines,omitempty"`
	Libs         []string     `json:"libs,omitempty" yaml:"libs,omitempty" toml:"libs,omitempty"`
	LibPaths     []string     `json:"lib_paths,omitempty" yaml:"lib_paths,omitempty" toml:"lib_paths,omitempty"`
	Libman       *PayloadSpec `json:"libman,omitempty" yaml:"libman,omitempty" toml:"libman,omitempty"`
}

// PayloadSpec is the raw "libman" entry of a dependency.
type PayloadSpec struct {
	Kind string `json:"kind" yaml:"kind" toml:"kind"`
	Data any    `json:"data,omitempty" yaml:"data,omitempty" toml:"data,omitempty"`
}

// -----------------------------------------------------------------------------

// Payload is the manifest data a dependency supplies itself: ExportRoot,
// Metadata, or nil when it supplies none.
type Payload interface {
	payload()
}

// ExportRoot marks a dependency that ships its own *.libman-export tree
// under its root directory.
type ExportRoot struct{}

// Metadata carries an embedded package list, still unvalidated. Data is
// either a decoded document or a JSON string.
type Metadata struct {
	Data any
}

func (ExportRoot) payload() {}
func (Metadata) payload()   {}

// Payload returns the closed payload variant of d.
func (d *Dependency) Payload() (Payload, error) {
	if d.Libman == nil {
		return nil, nil
	}
	switch d.Libman.Kind {
	case KindExportRoot:
		return ExportRoot{}, nil
	case KindMetadata:
		return Metadata{Data: d.Libman.Data}, nil
	}
	return nil, fmt.Errorf("dependency %s: unknown libman payload kind %q", d.Name, d.Libman.Kind)
}

// ResolvedIncludePaths returns IncludePaths with relative entries joined to Root.
func (d *Dependency) ResolvedIncludePaths() []string {
	return d.resolve(d.IncludePaths)
}

// ResolvedLibPaths returns LibPaths with relative entries joined to Root.
func (d *Dependency) ResolvedLibPaths() []string {
	return d.resolve(d.LibPaths)
}

func (d *Dependency) resolve(paths []string) []string {
	ret := make([]string, len(paths))
	for i, p := range paths {
		if d.Root != "" && !filepath.IsAbs(p) {
			p = filepath.Join(d.Root, p)
		}
		ret[i] = p
	}
	return ret
}

// -----------------------------------------------------------------------------

// Lookup returns the named dependency.
func (g *Graph) Lookup(name string) (*Dependency, bool) {
	for i := range g.Dependencies {
		if g.Dependencies[i].Name == name {
			return &g.Dependencies[i], true
		}
	}
	return nil, false
}

// Validate checks the schema version, that names are present and unique,
// and that every payload kind is known.
func (g *Graph) Validate() error {
	schema := g.Schema
	if schema == "" {
		schema = SchemaVersion
	}
	if !semver.IsValid(schema) {
		return fmt.Errorf("invalid graph schema version %q", g.Schema)
	}
	if semver.Major(schema) != semver.Major(SchemaVersion) {
		return fmt.Errorf("unsupported graph schema version %s (want %s)", schema, SchemaVersion)
	}

	seen := make(map[string]bool, len(g.Dependencies))
	for i := range g.Dependencies {
		dep := &g.Dependencies[i]
		if dep.Name == "" {
			return fmt.Errorf("dependency #%d has no name", i+1)
		}
		if seen[dep.Name] {
			return fmt.Errorf("dependency %s listed more than once", dep.Name)
		}
		seen[dep.Name] = true
		if _, err := dep.Payload(); err != nil {
			return err
		}
	}
	return nil
}

// Package generate compiles a resolved dependency graph into a libman tree:
// an INDEX.lmi plus package and library files for every dependency that
// does not ship libman data of its own.
package generate

import (
	"fmt"
	"path"

	"github.com/goplus/libman/internal/depgraph"
	"github.com/goplus/libman/internal/diag"
	"github.com/goplus/libman/pkgs/libman"
)

// IndexFile is the name of the generated index at the root of the tree.
const IndexFile = "INDEX" + libman.IndexExt

// ManifestDir holds the generated package and library files.
const ManifestDir = "lm"

const (
	packageDisclaimer = "Libman package file generated by libman. DO NOT EDIT."
	libraryDisclaimer = "Libman library file generated by libman. DO NOT EDIT."
)

// unit is one dependency together with what was resolved for it. Exactly one
// of auto or entries is meaningful, depending on payload.
type unit struct {
	dep     *depgraph.Dependency
	payload depgraph.Payload
	auto    *autoPackage
	entries []libman.IndexEntry

	exposed []libman.Usage // lazily read from entries
	readErr error
	loaded  bool
}

// hasLibmanData reports whether the dependency supplied its own manifests.
func (u *unit) hasLibmanData() bool {
	switch u.payload.(type) {
	case nil:
		return false
	case depgraph.ExportRoot, depgraph.Metadata:
		return true
	}
	panic(fmt.Sprintf("generate: unexpected payload %T", u.payload))
}

// exposedLibraries reads the libraries the dependency's own packages expose.
func (u *unit) exposedLibraries() ([]libman.Usage, error) {
	if !u.loaded {
		u.loaded = true
		u.exposed, u.readErr = readExposed(u.entries)
	}
	return u.exposed, u.readErr
}

func readExposed(entries []libman.IndexEntry) ([]libman.Usage, error) {
	var exposed []libman.Usage
	for _, entry := range entries {
		pkg, err := libman.ParsePackageFile(entry.Path)
		if err != nil {
			return nil, err
		}
		for _, lmlPath := range pkg.Libraries {
			lib, err := libman.ParseLibraryFile(lmlPath)
			if err != nil {
				return nil, err
			}
			exposed = append(exposed, libman.Usage{Namespace: pkg.Namespace, Name: lib.Name})
		}
	}
	return exposed, nil
}

// Generate compiles g into a libman tree. Notes and warnings about
// individual libraries go to sink, which may be nil.
//
// A malformed embedded metadata payload aborts the whole generation with an
// *UnresolvedMetadataError. Package files of a required dependency that
// cannot be read only produce a warning.
func Generate(g *depgraph.Graph, sink diag.Sink) (*Tree, error) {
	units, err := load(g)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*unit, len(units))
	for _, u := range units {
		byName[u.dep.Name] = u
	}

	tree := newTree()
	index := []libman.Field{{Key: "Type", Value: "Index"}}
	listed := make(map[string]string)
	addEntry := func(dep, name, path string) error {
		if owner, dup := listed[name]; dup {
			return fmt.Errorf("package %s is provided by both %s and %s", name, owner, dep)
		}
		listed[name] = dep
		index = append(index, libman.Field{Key: "Package", Value: name + "; " + path})
		return nil
	}

	for _, u := range units {
		switch u.payload.(type) {
		case depgraph.ExportRoot, depgraph.Metadata:
			for _, entry := range u.entries {
				if err := addEntry(u.dep.Name, entry.Name, entry.Path); err != nil {
					return nil, err
				}
			}
		case nil:
			lmpPath := u.auto.generateFiles(tree, byName, sink)
			if err := addEntry(u.dep.Name, u.auto.name, lmpPath); err != nil {
				return nil, err
			}
			u.auto.report(sink)
		default:
			panic(fmt.Sprintf("generate: unexpected payload %T", u.payload))
		}
	}

	tree.add(IndexFile, libman.Format("", index))
	return tree, nil
}

func load(g *depgraph.Graph) ([]*unit, error) {
	units := make([]*unit, 0, len(g.Dependencies))
	for i := range g.Dependencies {
		dep := &g.Dependencies[i]
		payload, err := dep.Payload()
		if err != nil {
			return nil, err
		}
		for _, req := range dep.Requires {
			if _, ok := g.Lookup(req); !ok {
				return nil, fmt.Errorf("dependency %s requires unknown dependency %s", dep.Name, req)
			}
		}
		u := &unit{dep: dep, payload: payload}
		switch p := payload.(type) {
		case nil:
			u.auto = newAutoPackage(dep)
		case depgraph.ExportRoot:
			if u.entries, err = exportRootEntries(dep); err != nil {
				return nil, err
			}
		case depgraph.Metadata:
			if u.entries, err = metadataEntries(dep, p); err != nil {
				return nil, err
			}
		default:
			panic(fmt.Sprintf("generate: unexpected payload %T", payload))
		}
		units = append(units, u)
	}
	return units, nil
}

// requirementUses computes the Uses edges contributed by the package's
// requirements. Every requirement is known to be in byName.
func (p *autoPackage) requirementUses(byName map[string]*unit, sink diag.Sink) []string {
	var uses []string
	for _, req := range p.requires {
		other := byName[req]
		fallback := libman.Usage{Namespace: other.dep.Name, Name: other.dep.Name}
		if !other.hasLibmanData() {
			uses = append(uses, fallback.String())
			continue
		}
		exposed, err := other.exposedLibraries()
		if err != nil {
			diag.Warnf(sink, p.name, "Cannot read libman data of %s, using %s: %v", req, fallback, err)
			uses = append(uses, fallback.String())
			continue
		}
		for _, u := range exposed {
			uses = append(uses, u.String())
		}
	}
	return uses
}

// generateFiles adds the package file and its library files to tree and
// returns the package file path relative to the tree root.
func (p *autoPackage) generateFiles(tree *Tree, byName map[string]*unit, sink diag.Sink) string {
	reqUses := p.requirementUses(byName, sink)

	fields := []libman.Field{
		{Key: "Type", Value: "Package"},
		{Key: "Name", Value: p.name},
		{Key: "Namespace", Value: p.namespace},
	}
	for _, req := range p.requires {
		fields = append(fields, libman.Field{Key: "Requires", Value: req})
	}
	for _, lib := range p.libs {
		lmlPath := p.name + "-libs/" + lib.name + libman.LibraryExt
		tree.add(path.Join(ManifestDir, lmlPath), lib.format(reqUses))
		fields = append(fields, libman.Field{Key: "Library", Value: lmlPath})
	}

	lmpPath := path.Join(ManifestDir, p.name+libman.PackageExt)
	tree.add(lmpPath, libman.Format(packageDisclaimer, fields))
	return lmpPath
}

func (lib *library) format(reqUses []string) []byte {
	fields := []libman.Field{
		{Key: "Type", Value: "Library"},
		{Key: "Name", Value: lib.name},
	}
	for _, inc := range lib.includes {
		fields = append(fields, libman.Field{Key: "Include-Path", Value: inc})
	}
	for _, def := range lib.defines {
		fields = append(fields, libman.Field{Key: "Preprocessor-Define", Value: def})
	}
	if lib.path != "" {
		fields = append(fields, libman.Field{Key: "Path", Value: lib.path})
	}
	for _, special := range lib.specialUses {
		fields = append(fields, libman.Field{Key: "Special-Uses", Value: special})
	}
	for _, uses := range reqUses {
		fields = append(fields, libman.Field{Key: "Uses", Value: uses})
	}
	return libman.Format(libraryDisclaimer, fields)
}

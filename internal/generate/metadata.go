package generate

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goplus/libman/internal/depgraph"
	"github.com/goplus/libman/pkgs/libman"
)

// UnresolvedMetadataError reports an embedded metadata payload of the wrong
// shape.
type UnresolvedMetadataError struct {
	Dependency string
	Reason     string
}

func (e *UnresolvedMetadataError) Error() string {
	return fmt.Sprintf("the libman metadata associated with %s is invalid (%s)", e.Dependency, e.Reason)
}

// metadataEntries validates an embedded payload and returns its packages.
// Relative paths are resolved against the dependency root.
func metadataEntries(dep *depgraph.Dependency, md depgraph.Metadata) ([]libman.IndexEntry, error) {
	invalid := func(format string, args ...any) error {
		return &UnresolvedMetadataError{Dependency: dep.Name, Reason: fmt.Sprintf(format, args...)}
	}

	data := md.Data
	if s, ok := data.(string); ok {
		if err := json.Unmarshal([]byte(s), &data); err != nil {
			return nil, invalid("not a JSON document: %v", err)
		}
	}
	if data == nil {
		return nil, nil
	}
	doc, ok := data.(map[string]any)
	if !ok {
		return nil, invalid("expected a map, got %T", data)
	}
	raw, ok := doc["packages"]
	if !ok {
		return nil, nil
	}
	packages, ok := raw.([]any)
	if !ok {
		return nil, invalid(`"packages" should be a list`)
	}

	entries := make([]libman.IndexEntry, 0, len(packages))
	for i, elem := range packages {
		pkg, ok := elem.(map[string]any)
		if !ok {
			return nil, invalid(`elements of "packages" should be maps`)
		}
		name, _ := pkg["name"].(string)
		path, _ := pkg["path"].(string)
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if name == "" || path == "" {
			return nil, invalid(`element %d of "packages" needs string "name" and "path"`, i)
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(dep.Root, path)
		}
		entries = append(entries, libman.IndexEntry{Name: name, Path: path})
	}
	return entries, nil
}

// exportRootEntries lists the package files under the dependency's
// *.libman-export directories. Their content is not read.
func exportRootEntries(dep *depgraph.Dependency) ([]libman.IndexEntry, error) {
	if dep.Root == "" {
		return nil, fmt.Errorf("dependency %s: export-root payload without a root directory", dep.Name)
	}
	matches, err := filepath.Glob(filepath.Join(dep.Root, "*"+libman.ExportSuffix, "*"+libman.PackageExt))
	if err != nil {
		return nil, fmt.Errorf("dependency %s: %w", dep.Name, err)
	}
	entries := make([]libman.IndexEntry, 0, len(matches))
	for _, lmp := range matches {
		entries = append(entries, libman.IndexEntry{
			Name: strings.TrimSuffix(filepath.Base(lmp), libman.PackageExt),
			Path: lmp,
		})
	}
	return entries, nil
}

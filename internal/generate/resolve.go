package generate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goplus/libman/internal/depgraph"
	"github.com/goplus/libman/internal/diag"
)

// specialRequirements maps linker names that are resolved by the platform
// rather than by a file on disk.
var specialRequirements = map[string]string{
	"pthread": "Threading",
	"dl":      "DynamicLinking",
	"m":       "Math",
}

// linkablePatterns are tried in order within each search directory.
var linkablePatterns = []string{
	"lib%s.a",
	"lib%s.lib",
	"lib%s.so",
	"%s.dll",
}

// library is a library being synthesized for a dependency without libman data.
type library struct {
	name        string
	path        string // empty if unresolved or special
	includes    []string
	defines     []string
	specialUses []string
	infos       []string
	warnings    []string
}

// autoPackage is a package synthesized for a dependency without libman data.
type autoPackage struct {
	name      string
	namespace string
	requires  []string
	libs      []*library
}

func newAutoPackage(dep *depgraph.Dependency) *autoPackage {
	pkg := &autoPackage{
		name:      dep.Name,
		namespace: dep.Name,
		requires:  append([]string(nil), dep.Requires...),
	}
	includes := dep.ResolvedIncludePaths()
	libPaths := dep.ResolvedLibPaths()

	seen := make(map[string]bool)
	for _, raw := range dep.Libs {
		if seen[raw] {
			continue
		}
		seen[raw] = true
		pkg.libs = append(pkg.libs, resolveLibrary(raw, includes, dep.Defines, libPaths))
	}
	if len(pkg.libs) == 0 {
		// Header-only: expose the include paths and defines under the package name.
		pkg.libs = append(pkg.libs, &library{
			name:     dep.Name,
			includes: includes,
			defines:  append([]string(nil), dep.Defines...),
		})
	}
	return pkg
}

func resolveLibrary(raw string, includes, defines, libPaths []string) *library {
	lib := &library{
		name:     raw,
		includes: includes,
		defines:  append([]string(nil), defines...),
	}
	if special, ok := specialRequirements[raw]; ok {
		lib.specialUses = append(lib.specialUses, special)
		lib.infos = append(lib.infos, "Link to `"+raw+"` being interpreted as special requirement \""+special+"\"")
		return lib
	}
	if found, ok := findLinkable(raw, libPaths); ok {
		lib.path = found
		lib.warnings = append(lib.warnings, "Library has no libman metadata and was generated automatically: "+found)
		return lib
	}
	lib.warnings = append(lib.warnings, "Unresolved library "+raw)
	return lib
}

// findLinkable returns the first artifact for lib in the first search
// directory that holds one.
func findLinkable(lib string, libPaths []string) (string, bool) {
	for _, dir := range libPaths {
		for _, pattern := range linkablePatterns {
			candidate := filepath.Join(dir, fmt.Sprintf(pattern, lib))
			if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
				return candidate, true
			}
		}
	}
	return "", false
}

func (p *autoPackage) report(sink diag.Sink) {
	for _, lib := range p.libs {
		subject := p.name + "/" + lib.name
		for _, info := range lib.infos {
			diag.Infof(sink, subject, "%s", info)
		}
		for _, warning := range lib.warnings {
			diag.Warnf(sink, subject, "%s", warning)
		}
	}
}

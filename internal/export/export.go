// Package export copies *.libman-export directories out of a build tree into
// a package directory, refusing to let two different exports share a name.
package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goplus/libman/internal/diag"
	"github.com/goplus/libman/pkgs/libman"
)

// ErrNoExports is returned by Finalize when nothing was ever exported.
var ErrNoExports = errors.New("no libman export directories have been exported")

// ExportCollisionError reports a second export directory with a name that
// was already copied from somewhere else.
type ExportCollisionError struct {
	Name     string
	Path     string
	Existing string
}

func (e *ExportCollisionError) Error() string {
	return fmt.Sprintf("more than one export directory with name %q: %s and %s",
		strings.TrimSuffix(e.Name, libman.ExportSuffix), e.Existing, e.Path)
}

// Set holds the absolute paths of export directories already copied.
type Set map[string]struct{}

// NewSet returns a Set holding paths.
func NewSet(paths ...string) Set {
	s := make(Set, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

// Has reports whether dir was exported.
func (s Set) Has(dir string) bool {
	_, ok := s[dir]
	return ok
}

// Paths returns the exported directories in sorted order.
func (s Set) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Clone returns a copy of s.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for p := range s {
		c[p] = struct{}{}
	}
	return c
}

// -----------------------------------------------------------------------------

// Find returns the export directories below buildDir in walk order. The
// content of an export directory is not searched.
func Find(buildDir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(buildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != buildDir && strings.HasSuffix(d.Name(), libman.ExportSuffix) {
			found = append(found, path)
			return filepath.SkipDir
		}
		return nil
	})
	return found, err
}

// Package copies every export directory found below buildDir into
// packageDir and returns the updated set of exported directories. exported
// is not modified and may be nil.
//
// A directory already in exported is skipped. A different directory with the
// same name as one already exported fails with *ExportCollisionError before
// anything is copied.
func Package(buildDir, packageDir string, exported Set, sink diag.Sink) (Set, error) {
	ret := exported.Clone()

	absBuild, err := filepath.Abs(buildDir)
	if err != nil {
		return nil, err
	}
	exports, err := Find(absBuild)
	if err != nil {
		return nil, err
	}

	// Check every name before copying so a collision leaves packageDir untouched.
	names := make(map[string]string, len(ret))
	for p := range ret {
		names[filepath.Base(p)] = p
	}
	var pending []string
	for _, dir := range exports {
		if ret.Has(dir) {
			continue
		}
		name := filepath.Base(dir)
		if existing, dup := names[name]; dup {
			return nil, &ExportCollisionError{Name: name, Path: dir, Existing: existing}
		}
		names[name] = dir
		pending = append(pending, dir)
	}

	for _, dir := range pending {
		name := filepath.Base(dir)
		diag.Infof(sink, "", "Packaging libman export %q (%s)", strings.TrimSuffix(name, libman.ExportSuffix), dir)
		dest := filepath.Join(packageDir, name)
		if err := os.CopyFS(dest, os.DirFS(dir)); err != nil {
			return nil, fmt.Errorf("copy export %s: %w", dir, err)
		}
		ret[dir] = struct{}{}
	}
	return ret, nil
}

// Finalize fails with ErrNoExports if exported is empty.
func Finalize(exported Set) error {
	if len(exported) == 0 {
		return ErrNoExports
	}
	return nil
}

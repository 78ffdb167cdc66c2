package libman

import (
	"path/filepath"
	"strings"
)

// IndexEntry maps a package name to its package file.
type IndexEntry struct {
	Name string
	Path string
}

// Index is a parsed libman index (.lmi).
type Index struct {
	entries []IndexEntry
	byName  map[string]int
	fields  *FieldSequence
}

// IndexFromFields validates fields as an index read from path. Relative
// package paths are resolved against the directory of path.
func IndexFromFields(fields *FieldSequence, path string) (*Index, error) {
	invalid := func(reason string) error {
		return &InvalidIndexError{Path: path, Reason: reason}
	}
	typ, err := fields.GetExactlyOne("Type", invalid)
	if err != nil {
		return nil, err
	}
	if typ.Value != "Index" {
		return nil, invalid(`invalid "Type" for index file: ` + typ.Value)
	}

	idx := &Index{
		byName: make(map[string]int),
		fields: fields,
	}
	for _, f := range fields.ForKey("Package") {
		name, pkgPath, ok := strings.Cut(f.Value, ";")
		if !ok {
			return nil, invalid(`invalid "Package" field: ` + f.String())
		}
		name = strings.TrimSpace(name)
		if _, dup := idx.byName[name]; dup {
			return nil, invalid(`package name "` + name + `" provided multiple times`)
		}
		idx.byName[name] = len(idx.entries)
		idx.entries = append(idx.entries, IndexEntry{
			Name: name,
			Path: resolvePath(path, strings.TrimSpace(pkgPath)),
		})
	}
	return idx, nil
}

// Len returns the number of packages in the index.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entries returns the index entries in declaration order.
func (idx *Index) Entries() []IndexEntry {
	ret := make([]IndexEntry, len(idx.entries))
	copy(ret, idx.entries)
	return ret
}

// Get returns the entry for the named package.
func (idx *Index) Get(name string) (IndexEntry, bool) {
	i, ok := idx.byName[name]
	if !ok {
		return IndexEntry{}, false
	}
	return idx.entries[i], true
}

// Has reports whether the index lists the named package.
func (idx *Index) Has(name string) bool {
	_, ok := idx.byName[name]
	return ok
}

// Fields returns the fields the index was built from.
func (idx *Index) Fields() *FieldSequence {
	return idx.fields
}

// resolvePath resolves p against the directory containing origin.
func resolvePath(origin, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(filepath.Dir(origin), p)
}

package libman

import "strings"

// Usage names a library within a namespace, written "<namespace>/<name>".
type Usage struct {
	Namespace string
	Name      string
}

func (u Usage) String() string {
	return u.Namespace + "/" + u.Name
}

// ParseUsage splits s into exactly two non-empty '/'-separated segments.
func ParseUsage(s string) (Usage, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Usage{}, false
	}
	return Usage{Namespace: parts[0], Name: parts[1]}, true
}

// Library is a parsed libman library (.lml).
type Library struct {
	Name     string
	Path     string // empty for interface (header-only) libraries
	Includes []string
	Defines  []string
	Uses     []Usage
	Links    []Usage
	fields   *FieldSequence
}

// HasPath reports whether the library names an on-disk artifact.
func (l *Library) HasPath() bool {
	return l.Path != ""
}

// Fields returns the fields the library was built from.
func (l *Library) Fields() *FieldSequence {
	return l.fields
}

// LibraryFromFields validates fields as a library read from path.
//
// Include-Path and Preprocessor-Define, as written by generated library
// files, are read as Include and Define.
func LibraryFromFields(fields *FieldSequence, path string) (*Library, error) {
	invalid := func(reason string) error {
		return &InvalidLibraryError{Path: path, Reason: reason}
	}
	typ, err := fields.GetExactlyOne("Type", invalid)
	if err != nil {
		return nil, err
	}
	if typ.Value != "Library" {
		return nil, invalid(`library file declares incorrect Type "` + typ.Value + `"`)
	}
	name, err := fields.GetExactlyOne("Name", invalid)
	if err != nil {
		return nil, err
	}
	libPath, ok, err := fields.GetAtMostOne("Path", invalid)
	if err != nil {
		return nil, err
	}

	lib := &Library{
		Name:   name.Value,
		fields: fields,
	}
	if ok {
		lib.Path = resolvePath(path, libPath.Value)
	}
	for _, f := range fields.Fields() {
		switch f.Key {
		case "Include", "Include-Path":
			lib.Includes = append(lib.Includes, resolvePath(path, f.Value))
		case "Define", "Preprocessor-Define":
			lib.Defines = append(lib.Defines, f.Value)
		case "Uses", "Links":
			u, ok := ParseUsage(f.Value)
			if !ok {
				return nil, invalid(`invalid usage name "` + f.Value + `" (expect "<Namespace>/<Library>")`)
			}
			if f.Key == "Uses" {
				lib.Uses = append(lib.Uses, u)
			} else {
				lib.Links = append(lib.Links, u)
			}
		}
	}
	return lib, nil
}

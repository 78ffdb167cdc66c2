package libman

// Package is a parsed libman package (.lmp).
type Package struct {
	Name      string
	Namespace string
	Requires  []string // declaration order, duplicates kept
	Libraries []string // resolved paths of .lml files
	fields    *FieldSequence
}

// PackageFromFields validates fields as a package read from path.
func PackageFromFields(fields *FieldSequence, path string) (*Package, error) {
	invalid := func(reason string) error {
		return &InvalidPackageError{Path: path, Reason: reason}
	}
	typ, err := fields.GetExactlyOne("Type", invalid)
	if err != nil {
		return nil, err
	}
	if typ.Value != "Package" {
		return nil, invalid(`package file declares incorrect Type "` + typ.Value + `"`)
	}
	namespace, err := fields.GetExactlyOne("Namespace", invalid)
	if err != nil {
		return nil, err
	}
	name, err := fields.GetExactlyOne("Name", invalid)
	if err != nil {
		return nil, err
	}

	pkg := &Package{
		Name:      name.Value,
		Namespace: namespace.Value,
		Requires:  fields.Values("Requires"),
		fields:    fields,
	}
	for _, lib := range fields.Values("Library") {
		pkg.Libraries = append(pkg.Libraries, resolvePath(path, lib))
	}
	return pkg, nil
}

// Fields returns the fields the package was built from.
func (p *Package) Fields() *FieldSequence {
	return p.fields
}

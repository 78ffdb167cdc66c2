package libman

import "bytes"

// Format renders fields as a manifest document, one field per line. A
// non-empty comment is written first as a '#' line.
func Format(comment string, fields []Field) []byte {
	var buf bytes.Buffer
	if comment != "" {
		buf.WriteString("# ")
		buf.WriteString(comment)
		buf.WriteByte('\n')
	}
	for _, f := range fields {
		buf.WriteString(f.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// File name suffixes of the libman tree.
const (
	IndexExt   = ".lmi"
	PackageExt = ".lmp"
	LibraryExt = ".lml"

	// ExportSuffix marks a directory holding a ready-made manifest tree.
	ExportSuffix = ".libman-export"
)

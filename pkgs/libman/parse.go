package libman

import (
	"bufio"
	"bytes"
	"io"
	"iter"
	"os"
	"strings"
)

// ParseLine parses a single manifest line. ok is false for blank lines and
// comments.
//
// The key ends at the first ": ". Without one, the line must end in a bare
// ':' and the value is empty. Anything else is a *FormatError.
func ParseLine(line string) (f Field, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Field{}, false, nil
	}
	pos := strings.Index(line, ": ")
	if pos == -1 {
		pos = strings.IndexByte(line, ':')
		if pos == -1 || pos != len(line)-1 {
			return Field{}, false, &FormatError{Line: line}
		}
	}
	key, value := line[:pos], line[pos+1:]
	return Field{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}, true, nil
}

// FieldsFromLines lazily yields the fields of lines, skipping blanks and
// comments. Iteration stops after the first malformed line, which is yielded
// with a *FormatError carrying its 1-based line number.
func FieldsFromLines(lines iter.Seq[string]) iter.Seq2[Field, error] {
	return func(yield func(Field, error) bool) {
		n := 0
		for line := range lines {
			n++
			f, ok, err := ParseLine(line)
			if err != nil {
				if fe, ok := err.(*FormatError); ok {
					fe.LineNo = n
				}
				yield(Field{}, err)
				return
			}
			if ok && !yield(f, nil) {
				return
			}
		}
	}
}

// ReadFields lazily yields the fields read from r one line at a time. Lines
// may be of any length. Read errors are yielded and end the iteration.
func ReadFields(r io.Reader) iter.Seq2[Field, error] {
	return func(yield func(Field, error) bool) {
		br := bufio.NewReader(r)
		var readErr error
		lines := func(yieldLine func(string) bool) {
			for {
				line, err := br.ReadString('\n')
				if line != "" && !yieldLine(strings.TrimRight(line, "\r\n")) {
					return
				}
				if err != nil {
					if err != io.EOF {
						readErr = err
					}
					return
				}
			}
		}
		for f, err := range FieldsFromLines(lines) {
			if !yield(f, err) || err != nil {
				return
			}
		}
		if readErr != nil {
			yield(Field{}, readErr)
		}
	}
}

// Parse reads every field from r into a FieldSequence.
func Parse(r io.Reader) (*FieldSequence, error) {
	var fields []Field
	for f, err := range ReadFields(r) {
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return NewFieldSequence(fields), nil
}

// ParseString parses a manifest document held in memory.
func ParseString(doc string) (*FieldSequence, error) {
	return Parse(strings.NewReader(doc))
}

// ParseFile parses the manifest at path.
func ParseFile(path string) (*FieldSequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fields, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, withPath(err, path)
	}
	return fields, nil
}

// -----------------------------------------------------------------------------

// ParseIndexString parses an index document that was read from path.
func ParseIndexString(doc, path string) (*Index, error) {
	fields, err := ParseString(doc)
	if err != nil {
		return nil, err
	}
	return IndexFromFields(fields, path)
}

// ParseIndexFile parses the index file at path.
func ParseIndexFile(path string) (*Index, error) {
	fields, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return IndexFromFields(fields, path)
}

// ParsePackageString parses a package document that was read from path.
func ParsePackageString(doc, path string) (*Package, error) {
	fields, err := ParseString(doc)
	if err != nil {
		return nil, err
	}
	return PackageFromFields(fields, path)
}

// ParsePackageFile parses the package file at path.
func ParsePackageFile(path string) (*Package, error) {
	fields, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return PackageFromFields(fields, path)
}

// ParseLibraryString parses a library document that was read from path.
func ParseLibraryString(doc, path string) (*Library, error) {
	fields, err := ParseString(doc)
	if err != nil {
		return nil, err
	}
	return LibraryFromFields(fields, path)
}

// ParseLibraryFile parses the library file at path.
func ParseLibraryFile(path string) (*Library, error) {
	fields, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return LibraryFromFields(fields, path)
}

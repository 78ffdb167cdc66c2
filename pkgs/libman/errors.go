package libman

import (
	"errors"
	"fmt"
)

// ErrInvalidData is matched by every record validation error.
var ErrInvalidData = errors.New("invalid libman data")

// FormatError reports a line that is neither a field, a comment nor blank.
type FormatError struct {
	Path   string // file the line was read from, if known
	LineNo int    // 1-based, 0 if unknown
	Line   string
}

func (e *FormatError) Error() string {
	loc := ""
	if e.Path != "" {
		loc = e.Path + ":"
	}
	if e.LineNo > 0 {
		loc += fmt.Sprintf("%d:", e.LineNo)
	}
	if loc != "" {
		loc += " "
	}
	return fmt.Sprintf("%sinvalid libman line: %q", loc, e.Line)
}

// FieldError is the default error of the FieldSequence lookups.
type FieldError struct {
	Reason string
}

func (e *FieldError) Error() string {
	return e.Reason
}

// InvalidIndexError reports an index that violates the schema.
type InvalidIndexError struct {
	Path   string
	Reason string
}

func (e *InvalidIndexError) Error() string {
	return invalidMessage("index", e.Path, e.Reason)
}

func (e *InvalidIndexError) Is(target error) bool { return target == ErrInvalidData }

// InvalidPackageError reports a package that violates the schema.
type InvalidPackageError struct {
	Path   string
	Reason string
}

func (e *InvalidPackageError) Error() string {
	return invalidMessage("package", e.Path, e.Reason)
}

func (e *InvalidPackageError) Is(target error) bool { return target == ErrInvalidData }

// InvalidLibraryError reports a library that violates the schema.
type InvalidLibraryError struct {
	Path   string
	Reason string
}

func (e *InvalidLibraryError) Error() string {
	return invalidMessage("library", e.Path, e.Reason)
}

func (e *InvalidLibraryError) Is(target error) bool { return target == ErrInvalidData }

func invalidMessage(kind, path, reason string) string {
	if path == "" {
		return fmt.Sprintf("invalid libman %s: %s", kind, reason)
	}
	return fmt.Sprintf("invalid libman %s %s: %s", kind, path, reason)
}

func withPath(err error, path string) error {
	var fe *FormatError
	if errors.As(err, &fe) && fe.Path == "" {
		fe.Path = path
		return err
	}
	return fmt.Errorf("%s: %w", path, err)
}

package generate

import (
	"archive/zip"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Tree is a generated libman tree held in memory. File names are
// slash-separated and relative to the tree root.
type Tree struct {
	files map[string][]byte
}

func newTree() *Tree {
	return &Tree{files: make(map[string][]byte)}
}

func (t *Tree) add(name string, content []byte) {
	t.files[name] = content
}

// Files returns the file names of the tree in sorted order.
func (t *Tree) Files() []string {
	names := make([]string, 0, len(t.files))
	for name := range t.files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// File returns the content of the named file.
func (t *Tree) File(name string) ([]byte, bool) {
	content, ok := t.files[name]
	return content, ok
}

// Write writes the tree to dest.
// If dest ends with ".zip", creates a zip archive; otherwise writes a directory.
func (t *Tree) Write(dest string) error {
	if strings.HasSuffix(dest, ".zip") {
		return t.WriteZip(dest)
	}
	return t.WriteDir(dest)
}

// WriteDir writes every file of the tree below dir, replacing existing files.
func (t *Tree) WriteDir(dir string) error {
	for _, name := range t.Files() {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(p, t.files[name], 0o644); err != nil {
			return err
		}
	}
	return nil
}

// WriteZip creates a zip archive at dest holding the tree.
func (t *Tree) WriteZip(dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	now := time.Now()
	for _, name := range t.Files() {
		header := &zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: now,
		}
		header.SetMode(0o644)
		writer, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		if _, err := writer.Write(t.files[name]); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

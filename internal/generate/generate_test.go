package generate

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goplus/libman/internal/depgraph"
	"github.com/goplus/libman/internal/diag"
	"github.com/goplus/libman/pkgs/libman"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fileLines(t *testing.T, tree *Tree, name string) []string {
	t.Helper()
	content, ok := tree.File(name)
	require.True(t, ok, "missing file %s in %v", name, tree.Files())
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

func TestGenerateTransitiveUses(t *testing.T) {
	g := &depgraph.Graph{Dependencies: []depgraph.Dependency{
		{Name: "A"},
		{Name: "B", Requires: []string{"A"}},
	}}
	tree, err := Generate(g, nil)
	require.NoError(t, err)

	require.Equal(t, []string{
		"INDEX.lmi",
		"lm/A-libs/A.lml",
		"lm/A.lmp",
		"lm/B-libs/B.lml",
		"lm/B.lmp",
	}, tree.Files())

	require.Equal(t, []string{
		"Type: Index",
		"Package: A; lm/A.lmp",
		"Package: B; lm/B.lmp",
	}, fileLines(t, tree, IndexFile))

	require.Equal(t, []string{
		"# " + packageDisclaimer,
		"Type: Package",
		"Name: B",
		"Namespace: B",
		"Requires: A",
		"Library: B-libs/B.lml",
	}, fileLines(t, tree, "lm/B.lmp"))

	require.Contains(t, fileLines(t, tree, "lm/B-libs/B.lml"), "Uses: A/A")
	require.NotContains(t, strings.Join(fileLines(t, tree, "lm/A-libs/A.lml"), "\n"), "Uses:")
}

func TestGenerateLibraryResolution(t *testing.T) {
	root := t.TempDir()
	empty := filepath.Join(root, "empty")
	first := filepath.Join(root, "first")
	second := filepath.Join(root, "second")
	require.NoError(t, os.MkdirAll(empty, 0o755))
	touch(t, filepath.Join(first, "libz.so"))
	touch(t, filepath.Join(second, "libz.a"))
	touch(t, filepath.Join(first, "libpng.so"))
	touch(t, filepath.Join(first, "libpng.a"))
	touch(t, filepath.Join(second, "crypto.dll"))

	g := &depgraph.Graph{Dependencies: []depgraph.Dependency{{
		Name:         "media",
		Root:         root,
		IncludePaths: []string{"include"},
		Defines:      []string{"MEDIA_STATIC"},
		Libs:         []string{"z", "png", "crypto", "pthread", "missing", "z"},
		LibPaths:     []string{"empty", "first", "second"},
	}}}

	var sink diag.Collector
	tree, err := Generate(g, &sink)
	require.NoError(t, err)

	require.Equal(t, []string{
		"# " + libraryDisclaimer,
		"Type: Library",
		"Name: z",
		"Include-Path: " + filepath.Join(root, "include"),
		"Preprocessor-Define: MEDIA_STATIC",
		"Path: " + filepath.Join(first, "libz.so"),
	}, fileLines(t, tree, "lm/media-libs/z.lml"))

	require.Contains(t, fileLines(t, tree, "lm/media-libs/png.lml"), "Path: "+filepath.Join(first, "libpng.a"))
	require.Contains(t, fileLines(t, tree, "lm/media-libs/crypto.lml"), "Path: "+filepath.Join(second, "crypto.dll"))

	pthread := fileLines(t, tree, "lm/media-libs/pthread.lml")
	require.Contains(t, pthread, "Special-Uses: Threading")
	for _, line := range pthread {
		require.False(t, strings.HasPrefix(line, "Path:"), "special library has a path: %q", line)
	}
	for _, line := range fileLines(t, tree, "lm/media-libs/missing.lml") {
		require.False(t, strings.HasPrefix(line, "Path:"), "unresolved library has a path: %q", line)
	}

	// duplicate raw names produce a single library
	pkgLines := fileLines(t, tree, "lm/media.lmp")
	require.Equal(t, 5, countPrefix(pkgLines, "Library: "))

	infos := sink.Filter(diag.Info)
	require.Len(t, infos, 1)
	require.Equal(t, "media/pthread", infos[0].Subject)

	var unresolved []diag.Diagnostic
	for _, d := range sink.Filter(diag.Warn) {
		if strings.HasPrefix(d.Message, "Unresolved library") {
			unresolved = append(unresolved, d)
		}
	}
	require.Len(t, unresolved, 1)
	require.Equal(t, "media/missing", unresolved[0].Subject)
}

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func TestGenerateMetadata(t *testing.T) {
	g := &depgraph.Graph{Dependencies: []depgraph.Dependency{
		{
			Name: "boost",
			Root: "/pkgs/boost",
			Libman: &depgraph.PayloadSpec{Kind: depgraph.KindMetadata, Data: map[string]any{
				"packages": []any{
					map[string]any{"name": "Boost", "path": "lm/boost.lmp"},
					map[string]any{"name": "Extra", "path": "/abs/extra.lmp"},
				},
			}},
		},
		{
			Name:   "fmt",
			Root:   "/pkgs/fmt",
			Libman: &depgraph.PayloadSpec{Kind: depgraph.KindMetadata, Data: `{"packages": [{"name": "fmt", "path": "fmt.lmp"}]}`},
		},
	}}
	tree, err := Generate(g, nil)
	require.NoError(t, err)
	require.Equal(t, []string{IndexFile}, tree.Files())
	require.Equal(t, []string{
		"Type: Index",
		"Package: Boost; " + filepath.Join("/pkgs/boost", "lm/boost.lmp"),
		"Package: Extra; /abs/extra.lmp",
		"Package: fmt; " + filepath.Join("/pkgs/fmt", "fmt.lmp"),
	}, fileLines(t, tree, IndexFile))
}

func TestGenerateMetadataInvalid(t *testing.T) {
	tests := []struct {
		name string
		data any
	}{
		{"not a map", []any{"x"}},
		{"packages not a list", map[string]any{"packages": "nope"}},
		{"element not a map", map[string]any{"packages": []any{"nope"}}},
		{"element without path", map[string]any{"packages": []any{map[string]any{"name": "x"}}}},
		{"bad json string", `{"packages": [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &depgraph.Graph{Dependencies: []depgraph.Dependency{
				{Name: "ok"},
				{Name: "bad", Libman: &depgraph.PayloadSpec{Kind: depgraph.KindMetadata, Data: tt.data}},
			}}
			tree, err := Generate(g, nil)
			require.Nil(t, tree)
			var ue *UnresolvedMetadataError
			require.ErrorAs(t, err, &ue)
			require.Equal(t, "bad", ue.Dependency)
		})
	}
}

func TestGenerateExportRootUses(t *testing.T) {
	root := t.TempDir()
	exportDir := filepath.Join(root, "widget"+libman.ExportSuffix)
	writeFile(t, filepath.Join(exportDir, "widget.lmp"),
		"Type: Package\nName: widget\nNamespace: Widgets\nLibrary: widget-libs/core.lml\nLibrary: widget-libs/extra.lml\n")
	writeFile(t, filepath.Join(exportDir, "widget-libs", "core.lml"), "Type: Library\nName: core\n")
	writeFile(t, filepath.Join(exportDir, "widget-libs", "extra.lml"), "Type: Library\nName: extra\n")

	g := &depgraph.Graph{Dependencies: []depgraph.Dependency{
		{Name: "widgets", Root: root, Libman: &depgraph.PayloadSpec{Kind: depgraph.KindExportRoot}},
		{Name: "app", Requires: []string{"widgets"}},
	}}
	tree, err := Generate(g, nil)
	require.NoError(t, err)

	require.Equal(t, []string{
		"Type: Index",
		"Package: widget; " + filepath.Join(exportDir, "widget.lmp"),
		"Package: app; lm/app.lmp",
	}, fileLines(t, tree, IndexFile))

	appLib := fileLines(t, tree, "lm/app-libs/app.lml")
	require.Contains(t, appLib, "Uses: Widgets/core")
	require.Contains(t, appLib, "Uses: Widgets/extra")
}

func TestGenerateUnreadableRequirement(t *testing.T) {
	root := t.TempDir()
	g := &depgraph.Graph{Dependencies: []depgraph.Dependency{
		{
			Name: "boost",
			Root: root,
			Libman: &depgraph.PayloadSpec{Kind: depgraph.KindMetadata, Data: map[string]any{
				"packages": []any{map[string]any{"name": "Boost", "path": "lm/boost.lmp"}},
			}},
		},
		{Name: "app", Requires: []string{"boost"}},
		{Name: "tool", Requires: []string{"boost"}},
	}}
	var c diag.Collector
	tree, err := Generate(g, &c)
	require.NoError(t, err)

	require.Equal(t, []string{
		"Type: Index",
		"Package: Boost; " + filepath.Join(root, "lm/boost.lmp"),
		"Package: app; lm/app.lmp",
		"Package: tool; lm/tool.lmp",
	}, fileLines(t, tree, IndexFile))
	require.Contains(t, fileLines(t, tree, "lm/app-libs/app.lml"), "Uses: boost/boost")
	require.Contains(t, fileLines(t, tree, "lm/tool-libs/tool.lml"), "Uses: boost/boost")

	warnings := c.Filter(diag.Warn)
	require.Len(t, warnings, 2)
	require.Equal(t, "app", warnings[0].Subject)
	require.Contains(t, warnings[0].Message, "Cannot read libman data of boost")
	require.Equal(t, "tool", warnings[1].Subject)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		deps []depgraph.Dependency
	}{
		{"unknown requirement", []depgraph.Dependency{{Name: "a", Requires: []string{"ghost"}}}},
		{"export root without root", []depgraph.Dependency{{Name: "a", Libman: &depgraph.PayloadSpec{Kind: depgraph.KindExportRoot}}}},
		{"unknown kind", []depgraph.Dependency{{Name: "a", Libman: &depgraph.PayloadSpec{Kind: "magic"}}}},
		{"package name clash", []depgraph.Dependency{
			{Name: "a"},
			{Name: "b", Libman: &depgraph.PayloadSpec{Kind: depgraph.KindMetadata, Data: map[string]any{
				"packages": []any{map[string]any{"name": "a", "path": "/x.lmp"}},
			}}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(&depgraph.Graph{Dependencies: tt.deps}, nil)
			require.Error(t, err)
		})
	}
}

func TestGeneratedTreeParses(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "lib", "libz.a"))
	g := &depgraph.Graph{Dependencies: []depgraph.Dependency{
		{Name: "zlib", Root: root, IncludePaths: []string{"include"}, Defines: []string{"ZLIB_CONST"}, Libs: []string{"z", "m"}, LibPaths: []string{"lib"}},
		{Name: "png", Requires: []string{"zlib"}},
	}}
	tree, err := Generate(g, nil)
	require.NoError(t, err)

	out := t.TempDir()
	require.NoError(t, tree.Write(out))

	idx, err := libman.ParseIndexFile(filepath.Join(out, IndexFile))
	require.NoError(t, err)
	require.Equal(t, 2, idx.Len())

	entry, ok := idx.Get("zlib")
	require.True(t, ok)
	pkg, err := libman.ParsePackageFile(entry.Path)
	require.NoError(t, err)
	require.Equal(t, "zlib", pkg.Namespace)
	require.Len(t, pkg.Libraries, 2)

	z, err := libman.ParseLibraryFile(pkg.Libraries[0])
	require.NoError(t, err)
	require.Equal(t, "z", z.Name)
	require.Equal(t, filepath.Join(root, "lib", "libz.a"), z.Path)
	require.Equal(t, []string{filepath.Join(root, "include")}, z.Includes)
	require.Equal(t, []string{"ZLIB_CONST"}, z.Defines)

	m, err := libman.ParseLibraryFile(pkg.Libraries[1])
	require.NoError(t, err)
	require.False(t, m.HasPath())
	require.Equal(t, []string{"Math"}, m.Fields().Values("Special-Uses"))

	entry, _ = idx.Get("png")
	pngPkg, err := libman.ParsePackageFile(entry.Path)
	require.NoError(t, err)
	require.Equal(t, []string{"zlib"}, pngPkg.Requires)
	png, err := libman.ParseLibraryFile(pngPkg.Libraries[0])
	require.NoError(t, err)
	require.Equal(t, []libman.Usage{{Namespace: "zlib", Name: "zlib"}}, png.Uses)
}

func TestWriteZip(t *testing.T) {
	tree, err := Generate(&depgraph.Graph{Dependencies: []depgraph.Dependency{{Name: "a"}}}, nil)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "out.zip")
	require.NoError(t, tree.Write(dest))

	r, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	require.Equal(t, tree.Files(), names)
}

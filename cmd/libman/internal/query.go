package internal

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/goplus/libman/pkgs/libman"
	"github.com/spf13/cobra"
)

var (
	queryKind    string
	queryIndex   string
	queryPackage string
	queryLibrary string
	queryKey     string
)

var queryCmd = &cobra.Command{
	Use:     "query",
	Aliases: []string{"q"},
	Short:   "Query libman files",
}

var queryIndexCmd = &cobra.Command{
	Use:     "index",
	Aliases: []string{"i", "idx"},
	Short:   "Query an Index file",
	Long: `Query an Index file.

  has-package   exit 0 if the package is listed, 1 otherwise
  package-path  print the path of the package file`,
	Args: cobra.NoArgs,
	RunE: runQueryIndex,
}

var queryPackageCmd = &cobra.Command{
	Use:     "package",
	Aliases: []string{"p", "pkg"},
	Short:   "Query a Package file",
	Long: `Query a Package file.

  namespace, name, requires, libraries, key (with --key)`,
	Args: cobra.NoArgs,
	RunE: runQueryPackage,
}

var queryLibraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"l", "lib"},
	Short:   "Query a Library file",
	Long: `Query a Library file.

  name, path, includes, defines, uses, links, key (with --key)`,
	Args: cobra.NoArgs,
	RunE: runQueryLibrary,
}

func init() {
	for _, c := range []*cobra.Command{queryIndexCmd, queryPackageCmd, queryLibraryCmd} {
		c.Flags().StringVarP(&queryKind, "query", "Q", "", "The query type")
		c.MarkFlagRequired("query")
		queryCmd.AddCommand(c)
	}
	queryIndexCmd.Flags().StringVarP(&queryIndex, "index", "I", "", "Path to the index file")
	queryIndexCmd.Flags().StringVarP(&queryPackage, "package", "p", "", "Name of the package to look up")
	queryIndexCmd.MarkFlagRequired("index")
	queryIndexCmd.MarkFlagRequired("package")

	queryPackageCmd.Flags().StringVarP(&queryPackage, "package", "p", "", "Path to a package file")
	queryPackageCmd.Flags().StringVar(&queryKey, "key", "", "Query a different package key (used with --query=key)")
	queryPackageCmd.MarkFlagRequired("package")

	queryLibraryCmd.Flags().StringVarP(&queryLibrary, "library", "l", "", "Path to a library file")
	queryLibraryCmd.Flags().StringVar(&queryKey, "key", "", "Query a library key (used with --query=key)")
	queryLibraryCmd.MarkFlagRequired("library")

	rootCmd.AddCommand(queryCmd)
}

func runQueryIndex(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(queryIndex)
	if err != nil {
		return err
	}
	idx, err := libman.ParseIndexFile(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch queryKind {
	case "has-package":
		if !idx.Has(queryPackage) {
			return exitCode(1)
		}
		return nil
	case "package-path":
		entry, ok := idx.Get(queryPackage)
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), "No such package:", queryPackage)
			return exitCode(2)
		}
		fmt.Fprintln(out, entry.Path)
		return nil
	}
	return unknownQuery(queryKind, "has-package", "package-path")
}

func runQueryPackage(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(queryPackage)
	if err != nil {
		return err
	}
	pkg, err := libman.ParsePackageFile(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch queryKind {
	case "namespace":
		fmt.Fprintln(out, pkg.Namespace)
	case "name":
		fmt.Fprintln(out, pkg.Name)
	case "requires":
		printLines(out, pkg.Requires)
	case "libraries":
		printLines(out, pkg.Libraries)
	case "key":
		return printKey(out, pkg.Fields())
	default:
		return unknownQuery(queryKind, "namespace", "name", "requires", "libraries", "key")
	}
	return nil
}

func runQueryLibrary(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(queryLibrary)
	if err != nil {
		return err
	}
	lib, err := libman.ParseLibraryFile(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch queryKind {
	case "name":
		fmt.Fprintln(out, lib.Name)
	case "path":
		fmt.Fprintln(out, lib.Path)
	case "includes":
		printLines(out, lib.Includes)
	case "defines":
		printLines(out, lib.Defines)
	case "uses":
		for _, u := range lib.Uses {
			fmt.Fprintln(out, u)
		}
	case "links":
		for _, u := range lib.Links {
			fmt.Fprintln(out, u)
		}
	case "key":
		return printKey(out, lib.Fields())
	default:
		return unknownQuery(queryKind, "name", "path", "includes", "defines", "uses", "links", "key")
	}
	return nil
}

func printLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

func printKey(w io.Writer, fields *libman.FieldSequence) error {
	if queryKey == "" {
		return fmt.Errorf("no --key argument was specified")
	}
	printLines(w, fields.Values(queryKey))
	return nil
}

func unknownQuery(kind string, valid ...string) error {
	return fmt.Errorf("invalid query type %q (choose from %v)", kind, valid)
}

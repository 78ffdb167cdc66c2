package internal

import (
	"fmt"
	"path/filepath"

	"github.com/goplus/libman/internal/depgraph"
	"github.com/goplus/libman/internal/diag"
	"github.com/goplus/libman/internal/generate"
	"github.com/spf13/cobra"
)

var generateOutput string

var generateCmd = &cobra.Command{
	Use:   "generate [graph-file]",
	Short: "Generate a libman tree from a dependency graph",
	Long: `Generate reads a resolved dependency graph (JSON, YAML or TOML) and writes
INDEX.lmi together with package and library files for every dependency that
does not provide libman data itself.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output path (directory or .zip file, default from config)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	g, err := depgraph.Parse(args[0], nil)
	if err != nil {
		return fmt.Errorf("failed to load dependency graph: %w", err)
	}

	dest := generateOutput
	if dest == "" {
		dest = cfg.Output
	}
	dest, err = filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}

	tree, err := generate.Generate(g, diag.LogSink{Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to generate libman tree: %w", err)
	}
	if err := tree.Write(dest); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("Generated libman tree", "files", len(tree.Files()), "output", dest)
	return nil
}

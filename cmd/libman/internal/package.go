package internal

import (
	"fmt"
	"path/filepath"

	"github.com/goplus/libman/internal/diag"
	"github.com/goplus/libman/internal/export"
	"github.com/spf13/cobra"
)

var (
	packageSession  string
	packageFinalize bool
)

var packageCmd = &cobra.Command{
	Use:   "package [build-dir] [package-dir]",
	Short: "Copy libman export directories into a package directory",
	Long: `Package copies every *.libman-export directory below build-dir into
package-dir. Directories exported by earlier runs sharing the same session file
are skipped; two different export directories with the same name are an error.
With --finalize, fail if no directory has been exported in the session.`,
	Args: cobra.ExactArgs(2),
	RunE: runPackage,
}

func init() {
	packageCmd.Flags().StringVar(&packageSession, "session", "", "Session file shared by packaging phases (default from config)")
	packageCmd.Flags().BoolVar(&packageFinalize, "finalize", false, "Fail if nothing has been exported")
	rootCmd.AddCommand(packageCmd)
}

func runPackage(cmd *cobra.Command, args []string) error {
	buildDir, packageDir := args[0], args[1]
	packageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return err
	}

	sessionPath := packageSession
	if sessionPath == "" {
		sessionPath = cfg.Session
	}
	session, err := export.LoadSession(sessionPath)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", sessionPath, err)
	}
	if session.PackageDir != "" && session.PackageDir != packageDir {
		return fmt.Errorf("session %s belongs to package directory %s", sessionPath, session.PackageDir)
	}
	session.PackageDir = packageDir

	exported, err := export.Package(buildDir, packageDir, session.Set(), diag.LogSink{Logger: logger})
	if err != nil {
		return err
	}
	session.Update(exported)
	if err := session.Save(sessionPath); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionPath, err)
	}

	if packageFinalize {
		return export.Finalize(exported)
	}
	return nil
}

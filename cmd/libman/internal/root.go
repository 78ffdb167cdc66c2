package internal

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/goplus/libman/internal/config"
	"github.com/spf13/cobra"
)

var configFile string

// cfg and logger are set up before any subcommand runs.
var (
	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "libman",
	Short: "libman generates and queries libman manifest trees",
	Long: `libman describes installed libraries in a build-system agnostic format.
It compiles a resolved dependency graph into an INDEX.lmi tree, packages
*.libman-export directories and answers queries about libman files.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default is <user config dir>/libman/config.*)")
}

func setup(cmd *cobra.Command, args []string) error {
	c, _, err := config.Load(config.LoadOptions{ConfigFile: configFile})
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	cfg = c
	logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "libman",
		Level:  level,
	})
	return nil
}

// exitCode ends the process with a status but no message.
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		var code exitCode
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		log.Fatal(err)
	}
}

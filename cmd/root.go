package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zurstadt/isnad2network/internal/config"
)

var (
	configFile string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "isnad2network",
	Short: "Build transmission networks from isnad chain tables",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// newLogger builds the shared stderr logger honoring --debug.
func newLogger() *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}

// loadConfig reads the --config file when given, otherwise starts from the
// defaults. Flag overrides are applied by the callers before Validate.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	return config.Default(), nil
}

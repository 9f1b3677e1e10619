// Package cli provides the command-line interface for ryijy.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/jmylchreest/ryijy/internal/version"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	globalVerbose bool
	globalQuiet   bool

	// logger is rebuilt from the global flags before every command runs.
	logger = hclog.NewNullLogger()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "ryijy",
		Short: "Turn images into ryijy rug patterns",
		Long: `Ryijy reduces an image to a small palette of yarn colours and a grid of
knots, ready to be charted as a ryijy (rya) rug pattern.

Images are pixelated to the knot grid, their colours are clustered into at
most K yarns, and every knot is assigned its nearest yarn. Patterns are
stored as JSON documents that can be remapped, inspected, or handed to a
renderer plugin.`,
		Version:           version.Version,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogger,
	}
)

// NewRootCmd returns the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(reduceCmd)
	rootCmd.AddCommand(remapCmd)
	rootCmd.AddCommand(legendCmd)
	rootCmd.AddCommand(renderCmd)
}

// setupLogger builds the stderr logger from --verbose and --quiet.
func setupLogger(cmd *cobra.Command, _ []string) error {
	if globalVerbose && globalQuiet {
		return errors.New("--verbose and --quiet cannot be used together")
	}

	level := hclog.Info
	switch {
	case globalVerbose:
		level = hclog.Debug
	case globalQuiet:
		level = hclog.Error
	}

	logger = hclog.New(&hclog.LoggerOptions{
		Name:   "ryijy",
		Level:  level,
		Output: cmd.ErrOrStderr(),
		Color:  hclog.AutoColor,
	})
	return nil
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build date, commit hash, and Go version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

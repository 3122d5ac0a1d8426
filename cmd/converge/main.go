package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/ironclad/converge/pkg/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	color.NoColor = !isatty.IsTerminal(os.Stdout.Fd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "converge",
	Short: "converge - declarative infrastructure convergence engine",
	Long: `converge reads a declarative configuration of machines and typed
resources, plans the changes needed to bring them in line with it, and
applies those changes over SSH or locally, recording an append-only
provenance log and a content-addressed lock file as it goes.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"converge version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringP("file", "f", "converge.yaml", "Configuration file")
	rootCmd.PersistentFlags().String("state-dir", "./converge-state", "Directory for lock files and event logs")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(driftCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(recipesCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

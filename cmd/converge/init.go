package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const scaffoldTemplate = `version: "1.0"
name: example
description: Scaffolded by converge init

machines:
  localhost: {}

resources:
  motd:
    type: file
    machine: localhost
    path: /etc/motd
    content: "Managed by converge\n"

policy:
  failure: stop_on_first
  tripwire: true
  lock_file: true
`

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Scaffold a configuration and empty state directory",
	Long: `Write a starter configuration file and create the state directory.

Fails if a configuration already exists at the target path, so it never
clobbers in-progress work.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "converge.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing configuration: %s", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("check existing configuration: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create configuration directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(scaffoldTemplate), 0o644); err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}

	stateDir, _ := cmd.Flags().GetString("state-dir")
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	fmt.Printf("✓ Wrote configuration: %s\n", path)
	fmt.Printf("✓ Created state directory: %s\n", stateDir)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  converge validate -f %s\n", path)
	fmt.Printf("  converge plan -f %s\n", path)
	return nil
}

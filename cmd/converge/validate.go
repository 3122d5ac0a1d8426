package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/ironclad/converge/pkg/parser"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate a configuration",
	Long:  `Parse the configuration file and run every validation rule, printing a summary or the full list of errors.`,
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")

	cfg, err := parser.ParseFile(file)
	if err != nil {
		return err
	}

	problems := parser.Validate(cfg)
	if len(problems) == 0 {
		color.Green("✓ %s is valid (%d resources)\n", file, cfg.Resources.Len())
		return nil
	}

	color.Red("✗ %s has %d problem(s):\n", file, len(problems))
	for _, p := range problems {
		fmt.Printf("  - %s\n", p)
	}
	return fmt.Errorf("validation failed")
}

package main

import (
	"fmt"

	"github.com/ironclad/converge/pkg/parser"
	"github.com/ironclad/converge/pkg/planner"
	"github.com/ironclad/converge/pkg/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print per-machine lock summary",
	Long:  `Print each machine's lock file: its generation time, then each resource's kind, status, and hash.`,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringP("machine", "m", "", "Restrict status to one machine")
}

func runStatus(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	stateDir, _ := cmd.Flags().GetString("state-dir")
	machineFilter, _ := cmd.Flags().GetString("machine")

	cfg, err := parser.ParseFile(file)
	if err != nil {
		return err
	}

	machines := planner.MachineLookup(cfg)
	fileStore := store.NewFileStore(stateDir)

	for name, m := range machines {
		if machineFilter != "" && name != machineFilter {
			continue
		}
		lock, err := fileStore.Load(name, m.Hostname)
		if err != nil {
			return err
		}
		if lock.Resources == nil || lock.Resources.Len() == 0 {
			fmt.Printf("%s: no recorded state\n", name)
			continue
		}

		fmt.Printf("%s (generated %s):\n", name, lock.GeneratedAt.Format("2006-01-02 15:04:05"))
		for _, id := range lock.Resources.Keys() {
			rl, _ := lock.Resources.Get(id)
			fmt.Printf("  %-24s %-10s %-12s %s\n", id, rl.Kind, rl.Status, rl.Hash)
		}
	}
	return nil
}

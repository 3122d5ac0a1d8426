package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/ironclad/converge/pkg/drift"
	"github.com/ironclad/converge/pkg/eventlog"
	"github.com/ironclad/converge/pkg/metrics"
	"github.com/ironclad/converge/pkg/parser"
	"github.com/ironclad/converge/pkg/planner"
	"github.com/ironclad/converge/pkg/store"
	"github.com/ironclad/converge/pkg/types"
	"github.com/spf13/cobra"
)

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Re-hash observable state and report divergence",
	Long:  `Re-hash every converged file resource's live state and compare it against the lock's recorded hash. With --tripwire, exit nonzero if any drift is found.`,
	RunE:  runDrift,
}

func init() {
	driftCmd.Flags().StringP("machine", "m", "", "Restrict drift detection to one machine")
	driftCmd.Flags().Bool("tripwire", false, "Exit nonzero if drift is found")
}

func runDrift(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	stateDir, _ := cmd.Flags().GetString("state-dir")
	machineFilter, _ := cmd.Flags().GetString("machine")
	tripwire, _ := cmd.Flags().GetBool("tripwire")

	cfg, err := parser.ParseFile(file)
	if err != nil {
		return err
	}

	machines := planner.MachineLookup(cfg)
	fileStore := store.NewFileStore(stateDir)
	writer := eventlog.NewWriter(stateDir)

	var totalFindings int
	for name, m := range machines {
		if machineFilter != "" && name != machineFilter {
			continue
		}
		lock, err := fileStore.Load(name, m.Hostname)
		if err != nil {
			return err
		}
		findings, err := drift.Detect(lock)
		if err != nil {
			return err
		}
		metrics.DriftFindingsTotal.WithLabelValues(name).Add(float64(len(findings)))
		if len(findings) == 0 {
			fmt.Printf("%s: no drift\n", name)
			continue
		}
		totalFindings += len(findings)
		color.Yellow("%s: %d drifted resource(s)\n", name, len(findings))
		for _, f := range findings {
			fmt.Printf("  - %s (%s): expected %s, got %s — %s\n", f.ResourceID, f.Kind, f.ExpectedHash, f.ActualHash, f.Detail)
		}
		_ = writer.Append(name, types.NewEvent(time.Now(), types.EventDriftDetected, map[string]interface{}{"findings": len(findings)}))
	}

	if totalFindings > 0 && tripwire {
		return fmt.Errorf("drift detected in %d resource(s)", totalFindings)
	}
	return nil
}

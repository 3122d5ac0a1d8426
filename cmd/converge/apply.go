package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/ironclad/converge/pkg/executor"
	"github.com/ironclad/converge/pkg/generator"
	"github.com/ironclad/converge/pkg/parser"
	"github.com/ironclad/converge/pkg/transport"
	"github.com/ironclad/converge/pkg/types"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Execute the plan",
	Long:  `Resolve, apply, and record every planned change, persisting the lock file and event log as it goes.`,
	RunE:  runApply,
}

func init() {
	applyCmd.Flags().StringP("machine", "m", "", "Restrict apply to one machine")
	applyCmd.Flags().StringP("resource", "r", "", "Restrict apply to one resource")
	applyCmd.Flags().Bool("force", false, "Re-apply resources the planner considers unchanged")
	applyCmd.Flags().Bool("dry-run", false, "Compute the plan without executing it")
}

func runApply(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	stateDir, _ := cmd.Flags().GetString("state-dir")
	machineFilter, _ := cmd.Flags().GetString("machine")
	resourceFilter, _ := cmd.Flags().GetString("resource")
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg, err := parser.ParseFile(file)
	if err != nil {
		return err
	}
	if problems := parser.Validate(cfg); len(problems) > 0 {
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		return fmt.Errorf("configuration is invalid")
	}

	bar := progressbar.NewOptions(cfg.Resources.Len(),
		progressbar.OptionSetDescription("applying"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	results, err := executor.Apply(executor.Config{
		Configuration:  cfg,
		StateDir:       stateDir,
		Force:          force,
		DryRun:         dryRun,
		MachineFilter:  machineFilter,
		ResourceFilter: resourceFilter,
		Generator:      generator.NewShellGenerator(),
		Transport:      newTransport(),
	})
	if err != nil {
		return err
	}
	_ = bar.Set(cfg.Resources.Len())
	_ = bar.Finish()

	var totalFailed int
	for _, r := range results {
		fmt.Printf("%s: %d converged, %d unchanged, %d failed (%s)\n",
			r.Machine, r.Converged, r.Unchanged, r.Failed, r.TotalDuration.Round(time.Millisecond))
		totalFailed += r.Failed
	}

	if totalFailed > 0 {
		color.Red("✗ apply completed with %d failure(s)\n", totalFailed)
		return fmt.Errorf("%d resource(s) failed to converge", totalFailed)
	}
	color.Green("✓ apply completed successfully\n")
	return nil
}

// dispatchTransport routes each Exec call to the local shell when the
// target machine's hostname is "localhost" or its address is empty or
// 127.0.0.1, and over SSH otherwise.
// The executor only sees one transport.Transport; this is where the
// local/remote split actually happens.
type dispatchTransport struct {
	local *transport.LocalTransport
	ssh   *transport.SSHTransport
}

func newTransport() *dispatchTransport {
	return &dispatchTransport{
		local: transport.NewLocalTransport(),
		ssh:   transport.NewSSHTransport(),
	}
}

func (t *dispatchTransport) Exec(ctx context.Context, m types.Machine, script string) (transport.ExecResult, error) {
	if m.Hostname == types.Localhost || m.Addr == "" || m.Addr == "127.0.0.1" {
		return t.local.Exec(ctx, m, script)
	}
	return t.ssh.Exec(ctx, m, script)
}

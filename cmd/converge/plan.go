package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/ironclad/converge/pkg/parser"
	"github.com/ironclad/converge/pkg/planner"
	"github.com/ironclad/converge/pkg/resolver"
	"github.com/ironclad/converge/pkg/store"
	"github.com/ironclad/converge/pkg/types"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute and print a plan",
	Long:  `Diff the configuration against the current lock files and print the resulting plan. Never touches machine or lock state.`,
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringP("machine", "m", "", "Restrict the plan to one machine")
	planCmd.Flags().StringP("resource", "r", "", "Restrict the plan to one resource")
}

func runPlan(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	stateDir, _ := cmd.Flags().GetString("state-dir")
	machineFilter, _ := cmd.Flags().GetString("machine")
	resourceFilter, _ := cmd.Flags().GetString("resource")

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

	order, err := resolver.BuildExecutionOrder(cfg.Resources)
	if err != nil {
		return err
	}

	machines := planner.MachineLookup(cfg)
	fileStore := store.NewFileStore(stateDir)
	locks := make(map[string]*types.StateLock, len(machines))
	for name, m := range machines {
		lock, err := fileStore.Load(name, m.Hostname)
		if err != nil {
			return err
		}
		locks[name] = lock
	}

	plan := planner.Plan(cfg, order, locks)
	printPlan(plan, machineFilter, resourceFilter)
	return nil
}

func printPlan(plan *types.ExecutionPlan, machineFilter, resourceFilter string) {
	printed := 0
	for _, change := range plan.Changes {
		if machineFilter != "" && change.Machine != machineFilter {
			continue
		}
		if resourceFilter != "" && change.ResourceID != resourceFilter {
			continue
		}
		printed++
		line := fmt.Sprintf("[%s] %s (%s on %s): %s", actionSymbol(change.Action), change.ResourceID, change.Kind, change.Machine, change.Description)
		switch change.Action {
		case types.ActionCreate:
			color.Green("%s\n", line)
		case types.ActionUpdate:
			color.Yellow("%s\n", line)
		case types.ActionDestroy:
			color.Red("%s\n", line)
		default:
			fmt.Println(line)
		}
	}

	fmt.Println()
	fmt.Printf("Plan: %d to create, %d to update, %d to destroy, %d unchanged\n",
		plan.Summary.ToCreate, plan.Summary.ToUpdate, plan.Summary.ToDestroy, plan.Summary.Unchanged)
	if printed == 0 {
		fmt.Println("No matching changes.")
	}
}

func actionSymbol(a types.PlanAction) string {
	switch a {
	case types.ActionCreate:
		return "+"
	case types.ActionUpdate:
		return "~"
	case types.ActionDestroy:
		return "-"
	default:
		return "="
	}
}

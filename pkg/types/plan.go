package types

// PlanAction is the action the planner computed for one resource on
// one machine.
type PlanAction string

const (
	ActionCreate  PlanAction = "create"
	ActionUpdate  PlanAction = "update"
	ActionDestroy PlanAction = "destroy"
	ActionNoOp    PlanAction = "noop"
)

// PlannedChange is one entry in an ExecutionPlan.
type PlannedChange struct {
	ResourceID  string
	Machine     string
	Kind        ResourceKind
	Action      PlanAction
	Description string
}

// PlanSummary counts planned changes by action.
type PlanSummary struct {
	ToCreate    int
	ToUpdate    int
	ToDestroy   int
	Unchanged   int
}

// ExecutionPlan is the ordered sequence of per-resource actions the
// executor will drive to completion.
type ExecutionPlan struct {
	Name           string
	Changes        []PlannedChange
	ExecutionOrder []string
	Summary        PlanSummary
}

// Add appends change and updates the summary counters.
func (p *ExecutionPlan) Add(change PlannedChange) {
	p.Changes = append(p.Changes, change)
	switch change.Action {
	case ActionCreate:
		p.Summary.ToCreate++
	case ActionUpdate:
		p.Summary.ToUpdate++
	case ActionDestroy:
		p.Summary.ToDestroy++
	case ActionNoOp:
		p.Summary.Unchanged++
	}
}

// ForMachine returns the subset of Changes targeting machine, in plan
// order.
func (p *ExecutionPlan) ForMachine(machine string) []PlannedChange {
	var out []PlannedChange
	for _, c := range p.Changes {
		if c.Machine == machine {
			out = append(out, c)
		}
	}
	return out
}

package planner

import (
	"strings"

	"github.com/ironclad/converge/pkg/log"
	"github.com/ironclad/converge/pkg/metrics"
	"github.com/ironclad/converge/pkg/resolver"
	"github.com/ironclad/converge/pkg/types"
)

// Plan diffs every resource in order against locks (keyed by machine)
// and returns the resulting ExecutionPlan. Templates are resolved
// per-resource before hashing so plan-time and apply-time hashes
// agree; if resolution fails the planner logs a warning and falls back
// to the unresolved resource rather than dropping the entry.
func Plan(cfg *types.Configuration, order []string, locks map[string]*types.StateLock) *types.ExecutionPlan {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.PlanDuration)

	plan := &types.ExecutionPlan{Name: cfg.Name, ExecutionOrder: order}
	machines := MachineLookup(cfg)
	logger := log.WithComponent("planner")

	for _, id := range order {
		res, ok := cfg.Resources.Get(id)
		if !ok {
			continue
		}

		resolved, err := resolver.ResolveResource(res, cfg.Params, machines)
		if err != nil {
			logger.Warn().Str("resource_id", id).Err(err).Msg("template resolution failed, planning with unresolved resource")
			resolved = res
		}

		for _, machine := range resolved.Machine.Names {
			action, desc := decide(id, machine, resolved, locks)
			plan.Add(types.PlannedChange{
				ResourceID:  id,
				Machine:     machine,
				Kind:        resolved.Type,
				Action:      action,
				Description: desc,
			})
		}
	}

	return plan
}

// MachineLookup resolves every declared machine with its defaults
// applied, plus a synthesized "localhost" entry when the config
// doesn't define one. The planner and executor share this so a
// resource's resolved machine.* template references agree between
// planning and execution.
func MachineLookup(cfg *types.Configuration) map[string]types.Machine {
	out := make(map[string]types.Machine)
	if cfg.Machines != nil {
		for _, name := range cfg.Machines.Keys() {
			m, _ := cfg.Machines.Get(name)
			out[name] = m.WithDefaults()
		}
	}
	if _, ok := out[types.Localhost]; !ok {
		out[types.Localhost] = types.LocalhostMachine()
	}
	return out
}

func decide(id, machine string, r types.Resource, locks map[string]*types.StateLock) (types.PlanAction, string) {
	effectiveState := r.State
	if effectiveState == "" {
		effectiveState = types.DefaultStateForKind(r.Type)
	}

	rl, hasLock := lookupLock(locks, machine, id)

	if effectiveState == "absent" {
		if hasLock {
			return types.ActionDestroy, "destroy resource"
		}
		return types.ActionNoOp, "no changes"
	}

	if hasLock {
		if rl.Status == types.StatusConverged && rl.Hash == HashDesiredState(r) {
			return types.ActionNoOp, "no changes"
		}
		return types.ActionUpdate, "update resource"
	}

	return types.ActionCreate, describeCreate(r)
}

func lookupLock(locks map[string]*types.StateLock, machine, id string) (types.ResourceLock, bool) {
	lock, ok := locks[machine]
	if !ok || lock == nil || lock.Resources == nil {
		return types.ResourceLock{}, false
	}
	return lock.Resources.Get(id)
}

func describeCreate(r types.Resource) string {
	switch r.Type {
	case types.KindPackage:
		return "install " + strings.Join(r.Packages, ", ")
	case types.KindFile:
		return "create " + r.Path
	case types.KindService:
		return "start " + r.Name
	case types.KindMount:
		return "mount " + r.Path
	default:
		return "create resource"
	}
}

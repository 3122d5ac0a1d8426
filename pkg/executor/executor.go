package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ironclad/converge/pkg/eventlog"
	"github.com/ironclad/converge/pkg/generator"
	"github.com/ironclad/converge/pkg/hash"
	"github.com/ironclad/converge/pkg/log"
	"github.com/ironclad/converge/pkg/metrics"
	"github.com/ironclad/converge/pkg/planner"
	"github.com/ironclad/converge/pkg/resolver"
	"github.com/ironclad/converge/pkg/store"
	"github.com/ironclad/converge/pkg/transport"
	"github.com/ironclad/converge/pkg/types"
	"github.com/rs/zerolog"
)

// Config holds everything one Apply invocation needs.
type Config struct {
	Configuration  *types.Configuration
	StateDir       string
	Force          bool
	DryRun         bool
	MachineFilter  string
	ResourceFilter string
	Generator      generator.ScriptGenerator
	Transport      transport.Transport
}

// ApplyResult is the per-machine outcome of one Apply invocation.
type ApplyResult struct {
	Machine       string
	Converged     int
	Unchanged     int
	Failed        int
	TotalDuration time.Duration
}

const dryRunLabel = "dry-run"

// Apply builds the execution plan and drives it to completion. Config,
// graph, lock-load, and apply-time template-resolution errors abort the
// whole run; per-resource exec failures are recorded in the result and
// the machine's lock, never propagated as a Go error.
func Apply(cfg Config) ([]ApplyResult, error) {
	order, err := resolver.BuildExecutionOrder(cfg.Configuration.Resources)
	if err != nil {
		return nil, err
	}

	machines := planner.MachineLookup(cfg.Configuration)
	names := collectMachines(cfg.Configuration, cfg.MachineFilter)
	fileStore := store.NewFileStore(cfg.StateDir)
	logger := log.WithComponent("executor")

	locks := make(map[string]*types.StateLock, len(names))
	known := make([]string, 0, len(names))
	for _, name := range names {
		m, ok := machines[name]
		if !ok {
			logger.Warn().Str("machine", name).Msg("resource targets a machine absent from the configuration; skipping")
			continue
		}
		lock, err := fileStore.Load(name, m.Hostname)
		if err != nil {
			return nil, err
		}
		locks[name] = lock
		known = append(known, name)
	}

	plan := planner.Plan(cfg.Configuration, order, locks)

	if cfg.DryRun {
		return []ApplyResult{{Machine: dryRunLabel, Unchanged: plan.Summary.Unchanged}}, nil
	}

	metrics.ApplyRunsTotal.Inc()
	writer := eventlog.NewWriter(cfg.StateDir)
	tripwire := cfg.Configuration.Policy.TripwireEnabled()
	failurePolicy := cfg.Configuration.Policy.EffectiveFailure()

	results := make([]ApplyResult, 0, len(known))
	for _, machineName := range known {
		lock := locks[machineName]
		result, err := applyToMachine(cfg, machineName, machines[machineName], lock, plan, writer, tripwire, failurePolicy)

		if cfg.Configuration.Policy.LockFileEnabled() {
			if saveErr := fileStore.Save(lock); saveErr != nil {
				logger.Error().Str("machine", machineName).Err(saveErr).Msg("failed to persist lock")
			}
		}
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// applyToMachine runs every planned change for one machine, updating
// lock in place, and returns the machine's counters. A template-
// resolution failure aborts immediately and is returned as an error.
func applyToMachine(
	cfg Config,
	machineName string,
	machine types.Machine,
	lock *types.StateLock,
	plan *types.ExecutionPlan,
	writer *eventlog.Writer,
	tripwire bool,
	failurePolicy types.FailurePolicy,
) (ApplyResult, error) {
	timer := metrics.NewTimer()
	runID := eventlog.NewRunID(eventlog.Now())
	logger := log.WithMachine(machineName)

	if tripwire {
		_ = writer.Append(machineName, types.NewEvent(time.Now(), types.EventApplyStarted, map[string]interface{}{"run_id": runID}))
	}

	var converged, unchanged, failed int

	for _, change := range plan.ForMachine(machineName) {
		if cfg.ResourceFilter != "" && change.ResourceID != cfg.ResourceFilter {
			continue
		}
		if change.Action == types.ActionNoOp && !cfg.Force {
			unchanged++
			continue
		}

		res, ok := cfg.Configuration.Resources.Get(change.ResourceID)
		if !ok {
			continue
		}

		ok, err := converge(cfg, machineName, machine, change.ResourceID, res, lock, writer, tripwire, logger)
		if err != nil {
			return ApplyResult{}, err
		}
		if ok {
			converged++
		} else {
			failed++
			if failurePolicy == types.StopOnFirst {
				break
			}
		}
	}

	metrics.ResourcesUnchanged.WithLabelValues(machineName).Add(float64(unchanged))
	lock.GeneratedAt = time.Now()

	if tripwire {
		_ = writer.Append(machineName, types.NewEvent(time.Now(), types.EventApplyCompleted, map[string]interface{}{
			"run_id":    runID,
			"converged": converged,
			"unchanged": unchanged,
			"failed":    failed,
		}))
	}
	timer.ObserveDurationVec(metrics.ApplyDuration, machineName)

	return ApplyResult{Machine: machineName, Converged: converged, Unchanged: unchanged, Failed: failed, TotalDuration: timer.Duration()}, nil
}

// converge resolves res, runs its apply script, and on success its
// state-query script, inserting the resulting ResourceLock into lock.
// It returns true iff the resource converged; exec failures are
// reported through the bool, but a template-resolution failure is
// returned as an error since it aborts the whole apply run.
func converge(
	cfg Config,
	machineName string,
	machine types.Machine,
	resourceID string,
	res types.Resource,
	lock *types.StateLock,
	writer *eventlog.Writer,
	tripwire bool,
	logger zerolog.Logger,
) (bool, error) {
	params := cfg.Configuration.Params
	machines := planner.MachineLookup(cfg.Configuration)

	resolved, err := resolver.ResolveResource(res, params, machines)
	if err != nil {
		return false, fmt.Errorf("resolve templates for %s: %w", resourceID, err)
	}

	resolvedResource := types.ResolvedResource{ID: resourceID, Machine: machineName, Resource: resolved}

	if tripwire {
		_ = writer.Append(machineName, types.NewEvent(time.Now(), types.EventResourceStarted, map[string]interface{}{"resource_id": resourceID}))
	}

	start := time.Now()
	result, execErr := runApplyScript(cfg, machine, resolvedResource)
	duration := time.Since(start)

	if execErr != nil || !result.Succeeded() {
		lock.Resources.Set(resourceID, types.ResourceLock{
			Kind:            resolved.Type,
			Status:          types.StatusFailed,
			AppliedAt:       time.Now(),
			DurationSeconds: duration.Seconds(),
			Details:         types.NewDetails(),
		})
		metrics.ResourcesFailed.WithLabelValues(machineName, string(resolved.Type)).Inc()
		logger.Error().Str("resource_id", resourceID).Msg("resource failed to converge")
		if tripwire {
			_ = writer.Append(machineName, types.NewEvent(time.Now(), types.EventResourceFailed, map[string]interface{}{"resource_id": resourceID}))
		}
		return false, nil
	}

	desiredHash := planner.HashDesiredState(resolved)
	details := types.NewDetails()
	populateDetails(details, resolved)
	if liveHash, ok := queryLiveHash(cfg, machine, resolvedResource); ok {
		details.SetString("live_hash", liveHash)
	}

	lock.Resources.Set(resourceID, types.ResourceLock{
		Kind:            resolved.Type,
		Status:          types.StatusConverged,
		AppliedAt:       time.Now(),
		DurationSeconds: duration.Seconds(),
		Hash:            desiredHash,
		Details:         details,
	})
	metrics.ResourcesConverged.WithLabelValues(machineName, string(resolved.Type)).Inc()
	logger.Info().Str("resource_id", resourceID).Msg("resource converged")
	if tripwire {
		_ = writer.Append(machineName, types.NewEvent(time.Now(), types.EventResourceConverged, map[string]interface{}{"resource_id": resourceID}))
	}
	return true, nil
}

func runApplyScript(cfg Config, machine types.Machine, r types.ResolvedResource) (transport.ExecResult, error) {
	script, err := cfg.Generator.ApplyScript(r)
	if err != nil {
		return transport.ExecResult{}, err
	}
	return cfg.Transport.Exec(context.Background(), machine, script)
}

func queryLiveHash(cfg Config, machine types.Machine, r types.ResolvedResource) (string, bool) {
	script, err := cfg.Generator.StateQueryScript(r)
	if err != nil {
		return "", false
	}
	result, err := cfg.Transport.Exec(context.Background(), machine, script)
	if err != nil || !result.Succeeded() {
		return "", false
	}
	return hash.HashString(result.Stdout), true
}

func collectMachines(cfg *types.Configuration, filter string) []string {
	seen := make(map[string]bool)
	var out []string
	if cfg.Resources == nil {
		return out
	}
	for _, id := range cfg.Resources.Keys() {
		r, _ := cfg.Resources.Get(id)
		for _, name := range r.Machine.Names {
			if filter != "" && name != filter {
				continue
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func populateDetails(details types.Details, r types.Resource) {
	switch r.Type {
	case types.KindFile:
		details.SetString("path", r.Path)
		details.SetString("content_hash", hash.HashString(r.Content))
	case types.KindService:
		details.SetString("service_name", r.Name)
	case types.KindMount:
		details.SetString("path", r.Path)
		details.SetString("source", r.Source)
	case types.KindPackage:
		details.SetString("packages", strings.Join(r.Packages, ","))
	}
	if r.Owner != "" {
		details.SetString("owner", r.Owner)
	}
	if r.Group != "" {
		details.SetString("group", r.Group)
	}
	if r.Mode != "" {
		details.SetString("mode", r.Mode)
	}
}

package planner

import (
	"testing"

	"github.com/ironclad/converge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configWithResource(r types.Resource) *types.Configuration {
	resources := types.NewOrderedMap[types.Resource]()
	resources.Set("res", r)
	return &types.Configuration{
		Version:   types.SchemaVersion,
		Name:      "example",
		Machines:  types.NewOrderedMap[types.Machine](),
		Resources: resources,
	}
}

func TestPlanCreateWhenNoLock(t *testing.T) {
	cfg := configWithResource(types.Resource{
		Type:    types.KindFile,
		Machine: types.MachineRef{Names: []string{types.Localhost}},
		Path:    "/tmp/x",
		Content: "hello",
	})

	plan := Plan(cfg, []string{"res"}, map[string]*types.StateLock{})
	require.Len(t, plan.Changes, 1)
	assert.Equal(t, types.ActionCreate, plan.Changes[0].Action)
	assert.Equal(t, "create /tmp/x", plan.Changes[0].Description)
	assert.Equal(t, 1, plan.Summary.ToCreate)
}

func TestPlanNoOpWhenHashMatches(t *testing.T) {
	r := types.Resource{
		Type:    types.KindFile,
		Machine: types.MachineRef{Names: []string{types.Localhost}},
		Path:    "/tmp/x",
		Content: "hello",
	}
	cfg := configWithResource(r)

	lock := types.NewStateLock(types.Localhost, "localhost")
	lock.Resources.Set("res", types.ResourceLock{
		Kind:   types.KindFile,
		Status: types.StatusConverged,
		Hash:   HashDesiredState(r),
	})

	plan := Plan(cfg, []string{"res"}, map[string]*types.StateLock{types.Localhost: lock})
	require.Len(t, plan.Changes, 1)
	assert.Equal(t, types.ActionNoOp, plan.Changes[0].Action)
	assert.Equal(t, 1, plan.Summary.Unchanged)
}

func TestPlanUpdateWhenHashDiffers(t *testing.T) {
	cfg := configWithResource(types.Resource{
		Type:    types.KindFile,
		Machine: types.MachineRef{Names: []string{types.Localhost}},
		Path:    "/tmp/x",
		Content: "new content",
	})

	lock := types.NewStateLock(types.Localhost, "localhost")
	lock.Resources.Set("res", types.ResourceLock{
		Kind:   types.KindFile,
		Status: types.StatusConverged,
		Hash:   "blake3:stale",
	})

	plan := Plan(cfg, []string{"res"}, map[string]*types.StateLock{types.Localhost: lock})
	require.Len(t, plan.Changes, 1)
	assert.Equal(t, types.ActionUpdate, plan.Changes[0].Action)
}

func TestPlanAbsentWithNoLockIsNoOp(t *testing.T) {
	cfg := configWithResource(types.Resource{
		Type:    types.KindFile,
		Machine: types.MachineRef{Names: []string{types.Localhost}},
		Path:    "/tmp/x",
		State:   "absent",
	})

	plan := Plan(cfg, []string{"res"}, map[string]*types.StateLock{})
	require.Len(t, plan.Changes, 1)
	assert.Equal(t, types.ActionNoOp, plan.Changes[0].Action)
	assert.Equal(t, 1, plan.Summary.Unchanged)
	assert.Equal(t, 0, plan.Summary.ToDestroy)
}

func TestPlanAbsentWithLockIsDestroy(t *testing.T) {
	cfg := configWithResource(types.Resource{
		Type:    types.KindFile,
		Machine: types.MachineRef{Names: []string{types.Localhost}},
		Path:    "/tmp/x",
		State:   "absent",
	})

	lock := types.NewStateLock(types.Localhost, "localhost")
	lock.Resources.Set("res", types.ResourceLock{Kind: types.KindFile, Status: types.StatusConverged})

	plan := Plan(cfg, []string{"res"}, map[string]*types.StateLock{types.Localhost: lock})
	require.Len(t, plan.Changes, 1)
	assert.Equal(t, types.ActionDestroy, plan.Changes[0].Action)
}

func TestPlanFailedLockIsUpdate(t *testing.T) {
	r := types.Resource{
		Type:    types.KindFile,
		Machine: types.MachineRef{Names: []string{types.Localhost}},
		Path:    "/tmp/x",
		Content: "hello",
	}
	cfg := configWithResource(r)

	lock := types.NewStateLock(types.Localhost, "localhost")
	lock.Resources.Set("res", types.ResourceLock{
		Kind:   types.KindFile,
		Status: types.StatusFailed,
		Hash:   HashDesiredState(r),
	})

	plan := Plan(cfg, []string{"res"}, map[string]*types.StateLock{types.Localhost: lock})
	require.Len(t, plan.Changes, 1)
	assert.Equal(t, types.ActionUpdate, plan.Changes[0].Action)
}

func TestPlanExpandsMultipleMachineTargets(t *testing.T) {
	resources := types.NewOrderedMap[types.Resource]()
	resources.Set("res", types.Resource{
		Type:    types.KindPackage,
		Machine: types.MachineRef{Names: []string{"web1", "web2"}},
		Provider: "apt",
		Packages: []string{"curl"},
	})
	machines := types.NewOrderedMap[types.Machine]()
	machines.Set("web1", types.Machine{Hostname: "web1", Addr: "10.0.0.1"})
	machines.Set("web2", types.Machine{Hostname: "web2", Addr: "10.0.0.2"})
	cfg := &types.Configuration{Version: types.SchemaVersion, Name: "x", Machines: machines, Resources: resources}

	plan := Plan(cfg, []string{"res"}, map[string]*types.StateLock{})
	require.Len(t, plan.Changes, 2)
	assert.Equal(t, "web1", plan.Changes[0].Machine)
	assert.Equal(t, "web2", plan.Changes[1].Machine)
}

package resolver

import (
	"testing"

	"github.com/ironclad/converge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExecutionOrderDiamond(t *testing.T) {
	resources := types.NewOrderedMap[types.Resource]()
	resources.Set("top", types.Resource{})
	resources.Set("left", types.Resource{DependsOn: []string{"top"}})
	resources.Set("right", types.Resource{DependsOn: []string{"top"}})
	resources.Set("bottom", types.Resource{DependsOn: []string{"left", "right"}})

	order, err := BuildExecutionOrder(resources)
	require.NoError(t, err)
	assert.Equal(t, []string{"top", "left", "right", "bottom"}, order)
}

func TestBuildExecutionOrderCycle(t *testing.T) {
	resources := types.NewOrderedMap[types.Resource]()
	resources.Set("a", types.Resource{DependsOn: []string{"b"}})
	resources.Set("b", types.Resource{DependsOn: []string{"a"}})

	_, err := BuildExecutionOrder(resources)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuildExecutionOrderMissingDependency(t *testing.T) {
	resources := types.NewOrderedMap[types.Resource]()
	resources.Set("a", types.Resource{DependsOn: []string{"ghost"}})

	_, err := BuildExecutionOrder(resources)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestBuildExecutionOrderLexicographicTieBreak(t *testing.T) {
	resources := types.NewOrderedMap[types.Resource]()
	resources.Set("zebra", types.Resource{})
	resources.Set("apple", types.Resource{})
	resources.Set("mango", types.Resource{})

	order, err := BuildExecutionOrder(resources)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "mango", "zebra"}, order)
}

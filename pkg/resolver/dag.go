package resolver

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/ironclad/converge/pkg/types"
)

// stringHeap is a min-heap of resource ids, giving Kahn's algorithm
// O(log n) access to the lexicographically smallest ready node.
type stringHeap []string

func (h stringHeap) Len() int            { return len(h) }
func (h stringHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h stringHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *stringHeap) Push(x interface{}) { *h = append(*h, x.(string)) }
func (h *stringHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// BuildExecutionOrder computes a topological order over the resource
// dependency graph: for each resource r and each d in r.DependsOn,
// there is an edge d -> r. Among ready nodes at each step, the
// lexicographically smallest id is chosen, guaranteeing a stable order
// across runs and implementations. A dependency on an id absent from
// resources is an error; residual nodes once the queue is empty
// indicate a cycle.
func BuildExecutionOrder(resources *types.OrderedMap[types.Resource]) ([]string, error) {
	ids := resources.Keys()
	indegree := make(map[string]int, len(ids))
	children := make(map[string][]string)

	for _, id := range ids {
		indegree[id] = 0
	}
	for _, id := range ids {
		r, _ := resources.Get(id)
		for _, dep := range r.DependsOn {
			if !resources.Has(dep) {
				return nil, fmt.Errorf("resource %q depends on unknown resource %q", id, dep)
			}
			indegree[id]++
			children[dep] = append(children[dep], id)
		}
	}

	ready := &stringHeap{}
	for _, id := range ids {
		if indegree[id] == 0 {
			heap.Push(ready, id)
		}
	}

	order := make([]string, 0, len(ids))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(string)
		order = append(order, id)
		kids := append([]string(nil), children[id]...)
		sort.Strings(kids)
		for _, child := range kids {
			indegree[child]--
			if indegree[child] == 0 {
				heap.Push(ready, child)
			}
		}
	}

	if len(order) != len(ids) {
		var residual []string
		for _, id := range ids {
			if indegree[id] > 0 {
				residual = append(residual, id)
			}
		}
		sort.Strings(residual)
		return nil, fmt.Errorf("dependency cycle detected among resources: %v", residual)
	}
	return order, nil
}

package render

import (
	"sort"

	"github.com/mz/pipeforge/internal/resolve"
)

// topoSort orders descriptors so every resource appears after all resources
// it depends on. Ties are broken by ascending node ordinal, then resource
// type, then name, so identical graphs always render identically.
func topoSort(g *resolve.Graph) ([]*resolve.Descriptor, error) {
	indegree := make(map[string]int, g.Len())
	dependents := make(map[string][]string, g.Len())
	for _, d := range g.Resources() {
		indegree[d.ID] = len(d.DependsOn)
		for _, dep := range d.DependsOn {
			if _, ok := g.Resource(dep); !ok {
				return nil, &DanglingReferenceError{SourceID: d.ID, TargetID: dep}
			}
			dependents[dep] = append(dependents[dep], d.ID)
		}
	}

	var ready []*resolve.Descriptor
	for _, d := range g.Resources() {
		if indegree[d.ID] == 0 {
			ready = append(ready, d)
		}
	}

	ordered := make([]*resolve.Descriptor, 0, g.Len())
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			a, b := ready[i], ready[j]
			if a.NodeOrdinal != b.NodeOrdinal {
				return a.NodeOrdinal < b.NodeOrdinal
			}
			if a.Type != b.Type {
				return a.Type < b.Type
			}
			return a.Name < b.Name
		})
		next := ready[0]
		ready = ready[1:]
		ordered = append(ordered, next)

		for _, depID := range dependents[next.ID] {
			indegree[depID]--
			if indegree[depID] == 0 {
				d, _ := g.Resource(depID)
				ready = append(ready, d)
			}
		}
	}

	if len(ordered) != g.Len() {
		var remaining []string
		emitted := make(map[string]bool, len(ordered))
		for _, d := range ordered {
			emitted[d.ID] = true
		}
		for _, d := range g.Resources() {
			if !emitted[d.ID] {
				remaining = append(remaining, d.ID)
			}
		}
		sort.Strings(remaining)
		return nil, &CyclicDependencyError{Remaining: remaining}
	}
	return ordered, nil
}

package pipeline

import (
	"github.com/mz/pipeforge/internal/component"
)

// Build assembles a pipeline graph from an ordered component chain.
//
// The chain must be non-empty, open with a source, close with a sink, and
// contain only transforms in between; anything else fails with a
// *StructuralError. Build is a pure transformation and performs no I/O.
func Build(specs []component.Spec) (*Pipeline, error) {
	if len(specs) == 0 {
		return nil, structural("empty pipeline")
	}
	if specs[0].Role != component.RoleSource {
		return nil, structural("missing source")
	}
	if specs[len(specs)-1].Role != component.RoleSink {
		return nil, structural("missing sink")
	}
	// Judge each consecutive connection by the roles it joins, blaming the
	// downstream component of an illegal one.
	for i := 1; i < len(specs); i++ {
		if specs[i-1].Role == component.RoleSink || specs[i].Role == component.RoleSource {
			return nil, misplaced(i)
		}
	}

	p := New()
	var prev *Node
	for _, spec := range specs {
		n := p.AddNode(spec)
		if prev != nil {
			if err := p.AddEdge(prev.ID, n.ID); err != nil {
				return nil, err
			}
		}
		prev = n
	}
	return p, nil
}

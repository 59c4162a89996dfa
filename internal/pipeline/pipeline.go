package pipeline

import (
	"fmt"

	"github.com/mz/pipeforge/internal/component"
)

// Node is a single vertex in the pipeline graph. It wraps one component spec
// with a stable identifier and its ordinal position in the chain. Nodes are
// owned exclusively by the Pipeline that created them.
type Node struct {
	// ID is the deterministic identifier <role>-<kind>-<ordinal> used by all
	// later compilation stages.
	ID      string
	Ordinal int
	Spec    component.Spec
}

// Pipeline is a DAG of pipeline nodes. The base case is a linear chain
// (node[i] -> node[i+1]), but edges support fan-out and fan-in.
type Pipeline struct {
	nodes      []*Node
	byID       map[string]*Node
	deps       map[string]map[string]*Node
	dependents map[string]map[string]*Node
}

// New creates an empty pipeline graph.
func New() *Pipeline {
	return &Pipeline{
		byID:       make(map[string]*Node),
		deps:       make(map[string]map[string]*Node),
		dependents: make(map[string]map[string]*Node),
	}
}

// AddNode appends a node for the given spec, assigning its ordinal and
// deterministic identifier. The ordinal increments per node regardless of
// role, so identical input produces identical identifiers across runs.
func (p *Pipeline) AddNode(spec component.Spec) *Node {
	ordinal := len(p.nodes)
	n := &Node{
		ID:      fmt.Sprintf("%s-%s-%d", spec.Role, spec.Kind, ordinal),
		Ordinal: ordinal,
		Spec:    spec,
	}
	p.nodes = append(p.nodes, n)
	p.byID[n.ID] = n
	p.deps[n.ID] = make(map[string]*Node)
	p.dependents[n.ID] = make(map[string]*Node)
	return n
}

// AddEdge creates a directed edge from fromID to toID, meaning toID consumes
// the output of fromID. An error is returned if either node does not exist or
// the edge would be self-referential.
func (p *Pipeline) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, toID)
	}
	from, ok := p.byID[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	to, ok := p.byID[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}
	p.deps[toID][fromID] = from
	p.dependents[fromID][toID] = to
	return nil
}

// Nodes returns all nodes in chain order.
func (p *Pipeline) Nodes() []*Node {
	return p.nodes
}

// Len returns the number of nodes.
func (p *Pipeline) Len() int {
	return len(p.nodes)
}

// Node retrieves a node by identifier.
func (p *Pipeline) Node(id string) (*Node, bool) {
	n, ok := p.byID[id]
	return n, ok
}

// Predecessors returns the nodes the given node consumes from, in ordinal order.
func (p *Pipeline) Predecessors(id string) []*Node {
	return p.sorted(p.deps[id])
}

// Successors returns the nodes consuming the given node's output, in ordinal order.
func (p *Pipeline) Successors(id string) []*Node {
	return p.sorted(p.dependents[id])
}

// Entries returns nodes with no incoming edge. A well-formed pipeline has
// exactly one, the source.
func (p *Pipeline) Entries() []*Node {
	var entries []*Node
	for _, n := range p.nodes {
		if len(p.deps[n.ID]) == 0 {
			entries = append(entries, n)
		}
	}
	return entries
}

// Terminals returns nodes with no outgoing edge. A well-formed pipeline has
// exactly one, the sink.
func (p *Pipeline) Terminals() []*Node {
	var terminals []*Node
	for _, n := range p.nodes {
		if len(p.dependents[n.ID]) == 0 {
			terminals = append(terminals, n)
		}
	}
	return terminals
}

// DetectCycles checks the graph for cycles. It returns a non-nil error if one
// is found, naming the first node involved.
func (p *Pipeline) DetectCycles() error {
	// Classic depth-first search with three node sets: permanent nodes are
	// fully visited, temporary nodes are on the current recursion stack.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if permanent[n.ID] {
			return nil
		}
		if temporary[n.ID] {
			return fmt.Errorf("cycle detected involving node '%s'", n.ID)
		}
		temporary[n.ID] = true
		for _, next := range p.dependents[n.ID] {
			if err := visit(next); err != nil {
				return err
			}
		}
		delete(temporary, n.ID)
		permanent[n.ID] = true
		return nil
	}

	for _, n := range p.nodes {
		if !permanent[n.ID] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// sorted returns the given node set ordered by ordinal, for deterministic
// iteration.
func (p *Pipeline) sorted(set map[string]*Node) []*Node {
	out := make([]*Node, 0, len(set))
	for _, n := range set {
		out = append(out, n)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Ordinal > out[j].Ordinal; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

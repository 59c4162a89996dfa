package resolve

import (
	"context"
	"fmt"
	"sort"

	"github.com/mz/pipeforge/internal/ctxlog"
	"github.com/mz/pipeforge/internal/pipeline"
	"github.com/mz/pipeforge/internal/profile"
	"github.com/mz/pipeforge/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// resolved pairs a materialized descriptor with the template it came from,
// for the linking pass.
type resolved struct {
	desc *Descriptor
	tpl  registry.ResourceTemplate
}

// Resolve derives the resource graph for a validated pipeline.
//
// The first pass materializes every node's templates into descriptors,
// substituting parameters and profile values. The second pass links
// dependency edges: same-node references, upstream data consumption, and the
// input/output endpoints of processing jobs. Errors here indicate schema
// faults or unvalidated input, not conditions a correct caller can reach.
func Resolve(ctx context.Context, p *pipeline.Pipeline, reg *registry.Registry, prof profile.Profile) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	graph := newGraph()

	perNode := make(map[string][]resolved)
	// producers maps a node ID to its data-producing descriptor, if any.
	producers := make(map[string]*Descriptor)

	for _, n := range p.Nodes() {
		schema, err := reg.Lookup(n.Spec.Role, n.Spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("resolving node %s: %w", n.ID, err)
		}

		params, err := effectiveParams(n, schema)
		if err != nil {
			return nil, err
		}

		for _, tpl := range schema.Resources {
			desc, err := materialize(tpl, params, prof, n)
			if err != nil {
				return nil, fmt.Errorf("resolving node %s: %w", n.ID, err)
			}
			if err := graph.add(desc); err != nil {
				return nil, err
			}
			perNode[n.ID] = append(perNode[n.ID], resolved{desc: desc, tpl: tpl})
			if desc.DataProducer {
				producers[n.ID] = desc
			}
		}
	}
	logger.Debug("Resource materialization complete.", "resources", graph.Len())

	for _, n := range p.Nodes() {
		if err := link(p, n, perNode[n.ID], producers); err != nil {
			return nil, err
		}
	}
	for _, d := range graph.Resources() {
		sort.Strings(d.DependsOn)
	}
	logger.Debug("Resource linking complete.")

	return graph, nil
}

// effectiveParams merges the node's declared parameters with schema defaults,
// converting each value to its declared type.
func effectiveParams(n *pipeline.Node, schema *registry.Schema) (map[string]cty.Value, error) {
	params := make(map[string]cty.Value, len(schema.Params))
	for _, ps := range schema.Params {
		val, declared := n.Spec.Param(ps.Name)
		if !declared {
			if ps.Required {
				return nil, fmt.Errorf("resolving node %s: missing required parameter %q", n.ID, ps.Name)
			}
			if ps.Default != cty.NilVal {
				params[ps.Name] = ps.Default
			}
			continue
		}
		converted, err := convert.Convert(val, ps.Type)
		if err != nil {
			return nil, fmt.Errorf("resolving node %s: parameter %q: %w", n.ID, ps.Name, err)
		}
		params[ps.Name] = converted
	}
	return params, nil
}

// materialize instantiates one template into a descriptor.
func materialize(tpl registry.ResourceTemplate, params map[string]cty.Value, prof profile.Profile, n *pipeline.Node) (*Descriptor, error) {
	name, err := expand(tpl.NamePattern, params, prof, n.ID)
	if err != nil {
		return nil, err
	}
	label := sanitizeLabel(name)

	attrs := make(map[string]string, len(tpl.Attrs))
	for _, key := range sortedKeys(tpl.Attrs) {
		val, err := expand(tpl.Attrs[key], params, prof, n.ID)
		if err != nil {
			return nil, err
		}
		attrs[key] = val
	}

	var locator string
	if tpl.LocatorPattern != "" {
		if locator, err = expand(tpl.LocatorPattern, params, prof, n.ID); err != nil {
			return nil, err
		}
	}

	return &Descriptor{
		ID:           tpl.Type + "." + label,
		Type:         tpl.Type,
		Name:         name,
		Label:        label,
		Attrs:        attrs,
		Refs:         make(map[string]Ref),
		Locator:      locator,
		NodeID:       n.ID,
		NodeOrdinal:  n.Ordinal,
		DataProducer: tpl.DataProducer,
		Service:      tpl.Service,
	}, nil
}

// link derives the dependency edges for one node's descriptors.
func link(p *pipeline.Pipeline, n *pipeline.Node, rs []resolved, producers map[string]*Descriptor) error {
	local := make(map[string]*Descriptor, len(rs))
	for _, r := range rs {
		local[r.desc.Type] = r.desc
	}

	for _, r := range rs {
		for _, attr := range sortedRefKeys(r.tpl.RefAttrs) {
			ref := r.tpl.RefAttrs[attr]
			target, ok := local[ref.TargetType]
			if !ok {
				return fmt.Errorf("node %s: resource %s references undeclared resource type %s", n.ID, r.desc.Type, ref.TargetType)
			}
			r.desc.Refs[attr] = Ref{TargetID: target.ID, TargetAttr: ref.TargetAttr}
			r.desc.DependsOn = append(r.desc.DependsOn, target.ID)
		}
		for _, depType := range r.tpl.DependsOnLocal {
			target, ok := local[depType]
			if !ok {
				return fmt.Errorf("node %s: resource %s depends on undeclared resource type %s", n.ID, r.desc.Type, depType)
			}
			r.desc.DependsOn = append(r.desc.DependsOn, target.ID)
		}

		if r.tpl.ConsumesUpstream {
			up := nearestProducer(p, n.ID, producers, upstream)
			if up == nil {
				return fmt.Errorf("node %s: resource %s consumes upstream data but no upstream node produces any", n.ID, r.desc.Type)
			}
			r.desc.DependsOn = append(r.desc.DependsOn, up.ID)
			r.desc.Input = up.ID
		}
		if r.tpl.Service {
			// A processing job writes somewhere: it depends on its output
			// resource as well as its input, so provisioning orders both
			// endpoints before the job.
			down := nearestProducer(p, n.ID, producers, downstream)
			if down == nil {
				return fmt.Errorf("node %s: processing resource %s has no downstream output resource", n.ID, r.desc.Type)
			}
			r.desc.DependsOn = append(r.desc.DependsOn, down.ID)
			r.desc.Output = down.ID
		}
	}
	return nil
}

type direction int

const (
	upstream direction = iota
	downstream
)

// nearestProducer walks the pipeline graph from the given node and returns
// the closest data-producing descriptor in the requested direction: the
// highest-ordinal producer upstream, or the lowest-ordinal producer
// downstream.
func nearestProducer(p *pipeline.Pipeline, nodeID string, producers map[string]*Descriptor, dir direction) *Descriptor {
	var best *Descriptor
	visited := map[string]bool{nodeID: true}
	frontier := neighbors(p, nodeID, dir)

	for len(frontier) > 0 {
		next := frontier
		frontier = nil
		for _, n := range next {
			if visited[n.ID] {
				continue
			}
			visited[n.ID] = true
			if d, ok := producers[n.ID]; ok {
				if best == nil ||
					(dir == upstream && d.NodeOrdinal > best.NodeOrdinal) ||
					(dir == downstream && d.NodeOrdinal < best.NodeOrdinal) {
					best = d
				}
				continue
			}
			frontier = append(frontier, neighbors(p, n.ID, dir)...)
		}
	}
	return best
}

func neighbors(p *pipeline.Pipeline, nodeID string, dir direction) []*pipeline.Node {
	if dir == upstream {
		return p.Predecessors(nodeID)
	}
	return p.Successors(nodeID)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedRefKeys(m map[string]registry.RefSpec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

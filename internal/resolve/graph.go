package resolve

// Ref is a resolved attribute-level reference to another resource in the
// same graph. The renderer emits it as a block-to-block traversal instead of
// restating the referenced value.
type Ref struct {
	TargetID   string
	TargetAttr string
}

// Descriptor is one derived cloud resource. Descriptors reference back to the
// pipeline node that produced them but are owned by the resource graph.
type Descriptor struct {
	// ID is "<type>.<label>", unique within the graph.
	ID string
	// Type is the provider resource type, e.g. "google_bigquery_table".
	Type string
	// Name is the literal provider-side name, e.g. "user-events".
	Name string
	// Label is the name sanitized into an identifier usable as a block label
	// and in traversals, e.g. "user_events".
	Label string

	Attrs map[string]string
	Refs  map[string]Ref
	// DependsOn lists the IDs of resources this one depends on, sorted.
	DependsOn []string
	// Locator is the runtime data locator (topic path, table spec, bucket
	// URL). Empty for resources that hold no data.
	Locator string

	NodeID      string
	NodeOrdinal int

	DataProducer bool
	Service      bool
	// Input and Output are the data endpoints of a service resource: the IDs
	// of the upstream producer it reads and the downstream resource it
	// writes. Empty on non-service resources.
	Input  string
	Output string
}

// Graph is the set of all resolved descriptors plus their dependency edges.
type Graph struct {
	resources []*Descriptor
	byID      map[string]*Descriptor
}

func newGraph() *Graph {
	return &Graph{byID: make(map[string]*Descriptor)}
}

// NewGraph assembles a graph from pre-built descriptors, for callers that
// derive resources by other means than Resolve. Duplicate IDs fail with
// *DuplicateResourceError.
func NewGraph(descriptors ...*Descriptor) (*Graph, error) {
	g := newGraph()
	for _, d := range descriptors {
		if err := g.add(d); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Resources returns all descriptors in derivation order: pipeline node order,
// then template declaration order within a node.
func (g *Graph) Resources() []*Descriptor {
	return g.resources
}

// Resource retrieves a descriptor by ID.
func (g *Graph) Resource(id string) (*Descriptor, bool) {
	d, ok := g.byID[id]
	return d, ok
}

// Services returns the processing-job descriptors in derivation order.
func (g *Graph) Services() []*Descriptor {
	var out []*Descriptor
	for _, d := range g.resources {
		if d.Service {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of descriptors.
func (g *Graph) Len() int {
	return len(g.resources)
}

func (g *Graph) add(d *Descriptor) error {
	if prev, exists := g.byID[d.ID]; exists {
		return &DuplicateResourceError{ID: d.ID, FirstNode: prev.NodeID, SecondNode: d.NodeID}
	}
	g.resources = append(g.resources, d)
	g.byID[d.ID] = d
	return nil
}

package frontend

import (
	"github.com/mz/pipeforge/internal/component"
	"github.com/zclconf/go-cty/cty"
)

// Chain accumulates component specs in declaration order. Every append
// returns a new value, so partially built chains can be shared and extended
// without aliasing surprises.
type Chain struct {
	specs []component.Spec
}

// NewChain starts an empty chain.
func NewChain() Chain {
	return Chain{}
}

// Append returns a new chain with the spec added at the end.
func (c Chain) Append(spec component.Spec) Chain {
	specs := make([]component.Spec, 0, len(c.specs)+1)
	specs = append(specs, c.specs...)
	specs = append(specs, spec)
	return Chain{specs: specs}
}

// Source appends a source component of the given kind.
func (c Chain) Source(kind string, params map[string]cty.Value) Chain {
	return c.Append(component.NewSpec(component.RoleSource, kind, params))
}

// Transform appends a transform component of the given kind.
func (c Chain) Transform(kind string, params map[string]cty.Value) Chain {
	return c.Append(component.NewSpec(component.RoleTransform, kind, params))
}

// Sink appends a sink component of the given kind.
func (c Chain) Sink(kind string, params map[string]cty.Value) Chain {
	return c.Append(component.NewSpec(component.RoleSink, kind, params))
}

// Specs returns the accumulated components in order.
func (c Chain) Specs() []component.Spec {
	out := make([]component.Spec, len(c.specs))
	copy(out, c.specs)
	return out
}

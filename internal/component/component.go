// Package component defines the declarative data model for pipeline
// components. A component is the front-end's description of one stage of a
// data pipeline: where data comes from (source), how it is reshaped
// (transform), or where it lands (sink). Components carry no behavior; by the
// time they reach the compiler they are plain records of kind and parameters.
package component

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Role identifies the position a component may occupy in a pipeline chain.
type Role int

const (
	// RoleSource produces data and must open the chain.
	RoleSource Role = iota
	// RoleTransform reshapes data and may only appear between source and sink.
	RoleTransform
	// RoleSink consumes data and must close the chain.
	RoleSink
)

// String returns the lowercase name of the role, as used in node identifiers
// and diagnostics.
func (r Role) String() string {
	switch r {
	case RoleSource:
		return "source"
	case RoleTransform:
		return "transform"
	case RoleSink:
		return "sink"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Spec is one component instance as declared by the user. It is immutable
// once constructed; the compiler never writes to it.
type Spec struct {
	Role   Role
	Kind   string
	Params map[string]cty.Value
}

// NewSpec constructs a Spec, copying the parameter map so later mutation by
// the caller cannot leak into a pipeline under compilation.
func NewSpec(role Role, kind string, params map[string]cty.Value) Spec {
	copied := make(map[string]cty.Value, len(params))
	for name, val := range params {
		copied[name] = val
	}
	return Spec{Role: role, Kind: kind, Params: copied}
}

// Param returns the named parameter value and whether it was declared.
func (s Spec) Param(name string) (cty.Value, bool) {
	val, ok := s.Params[name]
	return val, ok
}

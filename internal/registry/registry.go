package registry

import (
	"fmt"

	"github.com/mz/pipeforge/internal/component"
	"github.com/zclconf/go-cty/cty"
)

// ParamSpec declares one parameter accepted by a connector.
type ParamSpec struct {
	Name     string
	Type     cty.Type
	Required bool
	// Default is applied when an optional parameter is omitted. It is
	// cty.NilVal for required parameters.
	Default cty.Value
}

// RefSpec declares that an attribute of a generated resource references
// another resource produced by the same node, rather than restating a
// literal value. The renderer turns it into a block-to-block traversal.
type RefSpec struct {
	// TargetType is the resource type of the referenced template within the
	// same node.
	TargetType string
	// TargetAttr is the attribute traversed on the referenced block.
	TargetAttr string
}

// ResourceTemplate describes one cloud resource a connector materializes.
// NamePattern, Attrs and LocatorPattern are interpolation patterns over a
// fixed placeholder set: ${project}, ${region}, ${param.<name>} and ${node}.
type ResourceTemplate struct {
	// Type is the provider resource type, e.g. "google_pubsub_topic".
	Type        string
	NamePattern string
	Attrs       map[string]string
	// RefAttrs maps attribute names to same-node resources they reference.
	// Each entry also implies a dependency edge.
	RefAttrs map[string]RefSpec
	// DependsOnLocal lists same-node resource types this resource depends on
	// without referencing any of their attributes.
	DependsOnLocal []string
	// LocatorPattern yields the runtime locator of the data held by this
	// resource (topic path, table spec, bucket URL). Only meaningful on
	// data-producing resources.
	LocatorPattern string

	// DataProducer marks the resource downstream nodes read from or write to.
	DataProducer bool
	// ConsumesUpstream marks a resource that reads the preceding node's data
	// and therefore depends on its data producer.
	ConsumesUpstream bool
	// Service marks a managed processing job that needs a service template
	// and a deployment command.
	Service bool
	// Elevated marks resources whose provisioning needs elevated privileges,
	// e.g. attaching a service account.
	Elevated bool
}

// Schema is the declarative description of one registered connector.
type Schema struct {
	Role      component.Role
	Kind      string
	Params    []ParamSpec
	Resources []ResourceTemplate
}

// Param returns the spec for the named parameter, if declared.
func (s *Schema) Param(name string) (ParamSpec, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// DataProducer returns the schema's data-producing template, if any.
func (s *Schema) DataProducer() (ResourceTemplate, bool) {
	for _, tpl := range s.Resources {
		if tpl.DataProducer {
			return tpl, true
		}
	}
	return ResourceTemplate{}, false
}

// NotFoundError reports a (role, kind) pair with no registered schema under
// the active provider.
type NotFoundError struct {
	Provider string
	Role     component.Role
	Kind     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no connector registered for (%s, %q) under provider %q", e.Role, e.Kind, e.Provider)
}

// schemaKey identifies one connector within a provider's table.
type schemaKey struct {
	role component.Role
	kind string
}

// Registry holds the static connector table for a single provider. It is
// populated at startup and read-only afterwards.
type Registry struct {
	provider string
	schemas  map[schemaKey]*Schema
}

// New creates an empty registry for the given provider id.
func New(provider string) *Registry {
	return &Registry{
		provider: provider,
		schemas:  make(map[schemaKey]*Schema),
	}
}

// Provider returns the provider id this registry's table targets.
func (r *Registry) Provider() string {
	return r.provider
}

// Register adds a connector schema to the table. Registering the same
// (role, kind) pair twice is a programmer error and panics.
func (r *Registry) Register(s *Schema) {
	k := schemaKey{role: s.Role, kind: s.Kind}
	if _, exists := r.schemas[k]; exists {
		panic(fmt.Sprintf("connector (%s, %q) already registered", s.Role, s.Kind))
	}
	r.schemas[k] = s
}

// Lookup resolves a (role, kind) pair to its schema. The lookup is pure and
// side-effect free; unknown pairs fail with *NotFoundError.
func (r *Registry) Lookup(role component.Role, kind string) (*Schema, error) {
	s, ok := r.schemas[schemaKey{role: role, kind: kind}]
	if !ok {
		return nil, &NotFoundError{Provider: r.provider, Role: role, Kind: kind}
	}
	return s, nil
}

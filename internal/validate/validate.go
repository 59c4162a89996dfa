package validate

import (
	"context"
	"errors"

	"github.com/mz/pipeforge/internal/component"
	"github.com/mz/pipeforge/internal/ctxlog"
	"github.com/mz/pipeforge/internal/pipeline"
	"github.com/mz/pipeforge/internal/profile"
	"github.com/mz/pipeforge/internal/registry"
	"github.com/zclconf/go-cty/cty/convert"
)

// Run checks the pipeline against all validation rules and returns the
// collected report. It never returns an error for validation failures; the
// report carries them.
func Run(ctx context.Context, p *pipeline.Pipeline, reg *registry.Registry, prof profile.Profile) *Report {
	logger := ctxlog.FromContext(ctx)
	report := &Report{}

	schemas := checkProviderAndSchemas(report, p, reg, prof)
	checkAdjacency(report, p)
	checkConformance(report, p, schemas)
	checkReachability(report, p, schemas)
	checkPermissions(report, p, schemas, prof)

	logger.Debug("Validation complete.",
		"errors", len(report.Errors()),
		"warnings", len(report.Warnings()),
	)
	return report
}

// checkProviderAndSchemas verifies the profile targets the registry's
// provider and resolves each node's schema. Nodes with no schema under the
// active provider produce an error finding; the returned map holds the
// schemas of the nodes that resolved.
func checkProviderAndSchemas(report *Report, p *pipeline.Pipeline, reg *registry.Registry, prof profile.Profile) map[string]*registry.Schema {
	if prof.Provider != reg.Provider() {
		report.addError(CheckProvider, "", -1,
			"profile targets provider %q but the registry serves %q", prof.Provider, reg.Provider())
	}

	schemas := make(map[string]*registry.Schema)
	for _, n := range p.Nodes() {
		s, err := reg.Lookup(n.Spec.Role, n.Spec.Kind)
		if err != nil {
			var nf *registry.NotFoundError
			if errors.As(err, &nf) {
				report.addError(CheckProvider, n.ID, n.Ordinal,
					"unsupported connector for provider %q: (%s, %q)", nf.Provider, nf.Role, nf.Kind)
				continue
			}
			report.addError(CheckProvider, n.ID, n.Ordinal, "schema lookup failed: %v", err)
			continue
		}
		schemas[n.ID] = s
	}
	return schemas
}

// checkAdjacency re-verifies chain shape. Build enforces the same rules, but
// graphs can be assembled by other means, so the shape is re-checked here.
// Entry and terminal roles are checked independently, then every edge is
// judged by the roles it joins, with the finding attributed to the downstream
// node of an illegal connection.
func checkAdjacency(report *Report, p *pipeline.Pipeline) {
	nodes := p.Nodes()
	if len(nodes) == 0 {
		report.addError(CheckAdjacency, "", -1, "pipeline has no nodes")
		return
	}

	if first := nodes[0]; first.Spec.Role != component.RoleSource {
		report.addError(CheckAdjacency, first.ID, first.Ordinal,
			"misplaced role: %s at index %d, expected source", first.Spec.Role, first.Ordinal)
	}
	if last := nodes[len(nodes)-1]; last.Spec.Role != component.RoleSink {
		report.addError(CheckAdjacency, last.ID, last.Ordinal,
			"misplaced role: %s at index %d, expected sink", last.Spec.Role, last.Ordinal)
	}

	for _, n := range nodes {
		for _, next := range p.Successors(n.ID) {
			switch {
			case n.Spec.Role == component.RoleSink:
				report.addError(CheckAdjacency, next.ID, next.Ordinal,
					"misplaced role: %s at index %d may not follow a sink", next.Spec.Role, next.Ordinal)
			case next.Spec.Role == component.RoleSource:
				report.addError(CheckAdjacency, next.ID, next.Ordinal,
					"misplaced role: source at index %d may not consume another component", next.Ordinal)
			}
		}
	}

	if entries := p.Entries(); len(entries) != 1 {
		report.addError(CheckAdjacency, "", -1, "pipeline must have exactly one entry node, found %d", len(entries))
	}
	if terminals := p.Terminals(); len(terminals) != 1 {
		report.addError(CheckAdjacency, "", -1, "pipeline must have exactly one terminal node, found %d", len(terminals))
	}
	if err := p.DetectCycles(); err != nil {
		report.addError(CheckAdjacency, "", -1, "%v", err)
	}
}

// checkConformance verifies each node's parameters against its schema.
func checkConformance(report *Report, p *pipeline.Pipeline, schemas map[string]*registry.Schema) {
	for _, n := range p.Nodes() {
		s, ok := schemas[n.ID]
		if !ok {
			continue
		}

		for _, ps := range s.Params {
			val, declared := n.Spec.Param(ps.Name)
			if !declared {
				if ps.Required {
					report.addError(CheckSchema, n.ID, n.Ordinal, "missing required parameter %q", ps.Name)
				}
				continue
			}
			if _, err := convert.Convert(val, ps.Type); err != nil {
				report.addError(CheckSchema, n.ID, n.Ordinal,
					"parameter %q: expected %s, got %s", ps.Name, ps.Type.FriendlyName(), val.Type().FriendlyName())
			}
		}

		for name := range n.Spec.Params {
			if _, declared := s.Param(name); !declared {
				report.addWarning(CheckSchema, n.ID, n.Ordinal, "unknown parameter %q ignored", name)
			}
		}
	}
}

// checkReachability verifies, using declared templates only, that every
// dependency edge the resolver will derive has a resolvable target. Errors
// surface here, before any resource is materialized.
func checkReachability(report *Report, p *pipeline.Pipeline, schemas map[string]*registry.Schema) {
	nodes := p.Nodes()

	producesAt := make([]bool, len(nodes))
	for i, n := range nodes {
		if s, ok := schemas[n.ID]; ok {
			_, producesAt[i] = s.DataProducer()
		}
	}

	for i, n := range nodes {
		s, ok := schemas[n.ID]
		if !ok {
			continue
		}

		local := make(map[string]bool, len(s.Resources))
		for _, tpl := range s.Resources {
			local[tpl.Type] = true
		}

		for _, tpl := range s.Resources {
			for attr, ref := range tpl.RefAttrs {
				if !local[ref.TargetType] {
					report.addError(CheckReachability, n.ID, n.Ordinal,
						"resource %s attribute %q references undeclared resource type %s", tpl.Type, attr, ref.TargetType)
				}
			}
			for _, dep := range tpl.DependsOnLocal {
				if !local[dep] {
					report.addError(CheckReachability, n.ID, n.Ordinal,
						"resource %s depends on undeclared resource type %s", tpl.Type, dep)
				}
			}
			if tpl.ConsumesUpstream && !anyBefore(producesAt, i) {
				report.addError(CheckReachability, n.ID, n.Ordinal,
					"resource %s consumes upstream data but no preceding node produces any", tpl.Type)
			}
			if tpl.Service && !anyAfter(producesAt, i) {
				report.addError(CheckReachability, n.ID, n.Ordinal,
					"resource %s is a processing job but no later node provides an output resource", tpl.Type)
			}
		}
	}
}

// checkPermissions flags resources needing elevated privileges when the
// profile carries no service account. These are warnings, not errors.
func checkPermissions(report *Report, p *pipeline.Pipeline, schemas map[string]*registry.Schema, prof profile.Profile) {
	if prof.Options.ServiceAccount != "" {
		return
	}
	for _, n := range p.Nodes() {
		s, ok := schemas[n.ID]
		if !ok {
			continue
		}
		for _, tpl := range s.Resources {
			if tpl.Elevated {
				report.addWarning(CheckPermissions, n.ID, n.Ordinal,
					"resource %s requires elevated privileges but the profile has no service account configured", tpl.Type)
			}
		}
	}
}

func anyBefore(set []bool, i int) bool {
	for j := 0; j < i; j++ {
		if set[j] {
			return true
		}
	}
	return false
}

func anyAfter(set []bool, i int) bool {
	for j := i + 1; j < len(set); j++ {
		if set[j] {
			return true
		}
	}
	return false
}

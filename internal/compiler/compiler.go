package compiler

import (
	"context"
	"fmt"

	"github.com/mz/pipeforge/internal/component"
	"github.com/mz/pipeforge/internal/ctxlog"
	"github.com/mz/pipeforge/internal/pipeline"
	"github.com/mz/pipeforge/internal/profile"
	"github.com/mz/pipeforge/internal/registry"
	"github.com/mz/pipeforge/internal/render"
	"github.com/mz/pipeforge/internal/resolve"
	"github.com/mz/pipeforge/internal/validate"
)

// Result is the outcome of a successful generation run: the validation
// report (possibly carrying warnings) and the complete artifact set.
type Result struct {
	Report    *validate.Report
	Artifacts []render.Artifact
}

// Compiler turns declared component chains into infrastructure artifacts.
// The registry is injected at construction rather than discovered globally,
// so there is no hidden process-wide state.
type Compiler struct {
	registry *registry.Registry
}

// New creates a compiler over the given connector registry.
func New(reg *registry.Registry) *Compiler {
	return &Compiler{registry: reg}
}

// Generate compiles the component chain into a complete, internally
// consistent artifact set. Stages run strictly in order — build, validate,
// resolve, render — and the first blocking failure aborts the run with a
// *CompilationError attributing the stage. Warnings in the validation report
// do not block.
func (c *Compiler) Generate(ctx context.Context, specs []component.Spec, prof profile.Profile) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	p, err := pipeline.Build(specs)
	if err != nil {
		return nil, &CompilationError{Stage: StageBuild, Err: err}
	}
	logger.Debug("Pipeline graph built.", "nodes", p.Len())

	report := validate.Run(ctx, p, c.registry, prof)
	if report.HasErrors() {
		return nil, &CompilationError{
			Stage:  StageValidate,
			Err:    fmt.Errorf("validation produced %d error finding(s)", len(report.Errors())),
			Report: report,
		}
	}
	logger.Debug("Pipeline validated.", "warnings", len(report.Warnings()))

	graph, err := resolve.Resolve(ctx, p, c.registry, prof)
	if err != nil {
		return nil, &CompilationError{Stage: StageResolve, Err: err, Report: report}
	}
	logger.Debug("Resources resolved.", "resources", graph.Len())

	provisioning, err := render.Provisioning(graph, prof)
	if err != nil {
		return nil, &CompilationError{Stage: StageRender, Err: err, Report: report}
	}
	templates, err := render.ServiceTemplates(graph, prof)
	if err != nil {
		return nil, &CompilationError{Stage: StageRender, Err: err, Report: report}
	}
	script, err := render.DeployScript(graph, prof)
	if err != nil {
		return nil, &CompilationError{Stage: StageRender, Err: err, Report: report}
	}

	artifacts := make([]render.Artifact, 0, len(templates)+2)
	artifacts = append(artifacts, provisioning)
	artifacts = append(artifacts, templates...)
	artifacts = append(artifacts, script)
	logger.Debug("Artifacts rendered.", "count", len(artifacts))

	return &Result{Report: report, Artifacts: artifacts}, nil
}

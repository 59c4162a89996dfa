package frontend

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/mz/pipeforge/internal/component"
	"github.com/mz/pipeforge/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// componentBlock is one source/transform/sink block from a declaration file.
// The block body carries the component's parameters as plain attributes.
type componentBlock struct {
	Kind string   `hcl:"kind,label"`
	Body hcl.Body `hcl:",remain"`
}

// declarationFile is the top-level structure of a pipeline declaration.
type declarationFile struct {
	Sources    []*componentBlock `hcl:"source,block"`
	Transforms []*componentBlock `hcl:"transform,block"`
	Sinks      []*componentBlock `hcl:"sink,block"`
}

// Loader parses HCL pipeline declarations into component specs.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a Loader with a fresh parser.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads the declaration at path — a single .hcl file or a directory of
// them — and returns the chain in declaration order: sources first, then
// transforms, then sinks. Chain shape is not judged here; that is the graph
// builder's job.
func (l *Loader) Load(ctx context.Context, path string) ([]component.Spec, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := declarationFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl declaration files found at %q", path)
	}
	logger.Debug("Declaration files discovered.", "count", len(files))

	var decl declarationFile
	for _, file := range files {
		hclFile, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", file, diags)
		}
		var part declarationFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &part); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", file, diags)
		}
		decl.Sources = append(decl.Sources, part.Sources...)
		decl.Transforms = append(decl.Transforms, part.Transforms...)
		decl.Sinks = append(decl.Sinks, part.Sinks...)
	}

	var specs []component.Spec
	for _, b := range decl.Sources {
		spec, err := l.translate(component.RoleSource, b)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	for _, b := range decl.Transforms {
		spec, err := l.translate(component.RoleTransform, b)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	for _, b := range decl.Sinks {
		spec, err := l.translate(component.RoleSink, b)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	logger.Debug("Declarations translated into component specs.", "components", len(specs))
	return specs, nil
}

// translate converts one block into a component spec, evaluating its body
// attributes as literal values.
func (l *Loader) translate(role component.Role, b *componentBlock) (component.Spec, error) {
	attrs, diags := b.Body.JustAttributes()
	if diags.HasErrors() {
		return component.Spec{}, fmt.Errorf("%s %q: %w", role, b.Kind, diags)
	}

	params := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return component.Spec{}, fmt.Errorf("%s %q parameter %q: %w", role, b.Kind, name, diags)
		}
		params[name] = val
	}
	return component.NewSpec(role, b.Kind, params), nil
}

// declarationFiles resolves path to the sorted list of .hcl files it names.
func declarationFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

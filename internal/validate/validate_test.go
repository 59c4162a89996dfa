package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/mz/pipeforge/internal/component"
	"github.com/mz/pipeforge/internal/pipeline"
	"github.com/mz/pipeforge/internal/profile"
	"github.com/mz/pipeforge/internal/registry"
)

func gcpProfile(t *testing.T, opts profile.Options) profile.Profile {
	t.Helper()
	prof, err := profile.New("gcp", "p", "us-central1", opts)
	require.NoError(t, err)
	return prof
}

func validChain() []component.Spec {
	return []component.Spec{
		component.NewSpec(component.RoleSource, "pubsub", map[string]cty.Value{
			"topic": cty.StringVal("user-events"),
		}),
		component.NewSpec(component.RoleTransform, "process_messages", nil),
		component.NewSpec(component.RoleSink, "bigquery", map[string]cty.Value{
			"dataset": cty.StringVal("analytics"),
			"table":   cty.StringVal("processed_users"),
		}),
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewGCP()

	t.Run("valid pipeline has no error findings", func(t *testing.T) {
		p, err := pipeline.Build(validChain())
		require.NoError(t, err)

		report := Run(ctx, p, reg, gcpProfile(t, profile.Options{}))
		assert.False(t, report.HasErrors())
	})

	t.Run("processing job without service account is a warning only", func(t *testing.T) {
		p, err := pipeline.Build(validChain())
		require.NoError(t, err)

		report := Run(ctx, p, reg, gcpProfile(t, profile.Options{}))
		warnings := report.Warnings()
		require.NotEmpty(t, warnings)
		assert.Equal(t, CheckPermissions, warnings[0].Check)
		assert.Equal(t, "transform-process_messages-1", warnings[0].NodeID)

		withSA := gcpProfile(t, profile.Options{ServiceAccount: "jobs@p.iam.gserviceaccount.com"})
		report = Run(ctx, p, reg, withSA)
		assert.Empty(t, report.Warnings())
	})

	t.Run("missing required parameter", func(t *testing.T) {
		specs := validChain()
		specs[0] = component.NewSpec(component.RoleSource, "pubsub", nil)
		p, err := pipeline.Build(specs)
		require.NoError(t, err)

		report := Run(ctx, p, reg, gcpProfile(t, profile.Options{}))
		require.True(t, report.HasErrors())
		errs := report.Errors()
		assert.Equal(t, CheckSchema, errs[0].Check)
		assert.Contains(t, errs[0].Message, `missing required parameter "topic"`)
	})

	t.Run("parameter kind mismatch", func(t *testing.T) {
		specs := validChain()
		specs[0] = component.NewSpec(component.RoleSource, "pubsub", map[string]cty.Value{
			"topic": cty.ListVal([]cty.Value{cty.StringVal("a")}),
		})
		p, err := pipeline.Build(specs)
		require.NoError(t, err)

		report := Run(ctx, p, reg, gcpProfile(t, profile.Options{}))
		require.True(t, report.HasErrors())
		assert.Contains(t, report.Errors()[0].Message, `parameter "topic"`)
	})

	t.Run("unknown parameter is a warning", func(t *testing.T) {
		specs := validChain()
		specs[2] = component.NewSpec(component.RoleSink, "bigquery", map[string]cty.Value{
			"dataset":   cty.StringVal("analytics"),
			"table":     cty.StringVal("processed_users"),
			"partition": cty.StringVal("daily"),
		})
		p, err := pipeline.Build(specs)
		require.NoError(t, err)

		report := Run(ctx, p, reg, gcpProfile(t, profile.Options{}))
		assert.False(t, report.HasErrors())

		found := false
		for _, w := range report.Warnings() {
			if w.Check == CheckSchema {
				assert.Contains(t, w.Message, `"partition"`)
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("misplaced role in a graph built by other means", func(t *testing.T) {
		// Two consecutive sink-role nodes; Build would reject this chain, so
		// assemble the graph directly.
		p := pipeline.New()
		a := p.AddNode(component.NewSpec(component.RoleSource, "pubsub", map[string]cty.Value{
			"topic": cty.StringVal("user-events"),
		}))
		b := p.AddNode(component.NewSpec(component.RoleSink, "bigquery", map[string]cty.Value{
			"dataset": cty.StringVal("analytics"),
			"table":   cty.StringVal("a"),
		}))
		c := p.AddNode(component.NewSpec(component.RoleSink, "bigquery", map[string]cty.Value{
			"dataset": cty.StringVal("analytics"),
			"table":   cty.StringVal("b"),
		}))
		require.NoError(t, p.AddEdge(a.ID, b.ID))
		require.NoError(t, p.AddEdge(b.ID, c.ID))

		report := Run(ctx, p, reg, gcpProfile(t, profile.Options{}))
		require.True(t, report.HasErrors())

		var adjacency []Finding
		for _, f := range report.Errors() {
			if f.Check == CheckAdjacency {
				adjacency = append(adjacency, f)
			}
		}
		// The sink that illegally follows another sink is blamed, not the
		// interior sink it follows.
		require.Len(t, adjacency, 1)
		assert.Equal(t, 2, adjacency[0].Index)
		assert.Equal(t, c.ID, adjacency[0].NodeID)
		assert.Contains(t, adjacency[0].Message, "misplaced role")
	})

	t.Run("lone source node fails the terminal role check", func(t *testing.T) {
		p := pipeline.New()
		p.AddNode(component.NewSpec(component.RoleSource, "pubsub", map[string]cty.Value{
			"topic": cty.StringVal("user-events"),
		}))

		report := Run(ctx, p, reg, gcpProfile(t, profile.Options{}))
		require.True(t, report.HasErrors())

		found := false
		for _, f := range report.Errors() {
			if f.Check == CheckAdjacency {
				assert.Contains(t, f.Message, "expected sink")
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("unsupported connector for provider", func(t *testing.T) {
		specs := validChain()
		specs[0] = component.NewSpec(component.RoleSource, "kinesis", map[string]cty.Value{
			"stream": cty.StringVal("events"),
		})
		p, err := pipeline.Build(specs)
		require.NoError(t, err)

		report := Run(ctx, p, reg, gcpProfile(t, profile.Options{}))
		require.True(t, report.HasErrors())
		errs := report.Errors()
		assert.Equal(t, CheckProvider, errs[0].Check)
		assert.Contains(t, errs[0].Message, `unsupported connector for provider "gcp"`)
		assert.Contains(t, errs[0].Message, `(source, "kinesis")`)
	})

	t.Run("profile provider must match the registry", func(t *testing.T) {
		p, err := pipeline.Build(validChain())
		require.NoError(t, err)

		prof, err := profile.New("aws", "p", "us-east-1", profile.Options{})
		require.NoError(t, err)

		report := Run(ctx, p, reg, prof)
		require.True(t, report.HasErrors())
		assert.Equal(t, CheckProvider, report.Errors()[0].Check)
	})

	t.Run("processing job with no downstream output is unreachable", func(t *testing.T) {
		// A transform in terminal position has no output resource to bind.
		p := pipeline.New()
		a := p.AddNode(component.NewSpec(component.RoleSource, "pubsub", map[string]cty.Value{
			"topic": cty.StringVal("user-events"),
		}))
		b := p.AddNode(component.NewSpec(component.RoleTransform, "process_messages", nil))
		require.NoError(t, p.AddEdge(a.ID, b.ID))

		report := Run(ctx, p, reg, gcpProfile(t, profile.Options{}))
		require.True(t, report.HasErrors())

		found := false
		for _, f := range report.Errors() {
			if f.Check == CheckReachability {
				found = true
			}
		}
		assert.True(t, found)
	})
}

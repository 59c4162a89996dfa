package resolve

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/mz/pipeforge/internal/component"
	"github.com/mz/pipeforge/internal/pipeline"
	"github.com/mz/pipeforge/internal/profile"
	"github.com/mz/pipeforge/internal/registry"
)

func gcpProfile(t *testing.T) profile.Profile {
	t.Helper()
	prof, err := profile.New("gcp", "p", "us-central1", profile.Options{})
	require.NoError(t, err)
	return prof
}

func examplePipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	p, err := pipeline.Build([]component.Spec{
		component.NewSpec(component.RoleSource, "pubsub", map[string]cty.Value{
			"topic": cty.StringVal("user-events"),
		}),
		component.NewSpec(component.RoleTransform, "process_messages", nil),
		component.NewSpec(component.RoleSink, "bigquery", map[string]cty.Value{
			"dataset": cty.StringVal("analytics"),
			"table":   cty.StringVal("processed_users"),
		}),
	})
	require.NoError(t, err)
	return p
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewGCP()

	t.Run("example chain materializes all resources", func(t *testing.T) {
		g, err := Resolve(ctx, examplePipeline(t), reg, gcpProfile(t))
		require.NoError(t, err)

		topic, ok := g.Resource("google_pubsub_topic.user_events")
		require.True(t, ok)
		assert.Equal(t, "user-events", topic.Name)
		assert.Equal(t, "user-events", topic.Attrs["name"])
		assert.Equal(t, "p", topic.Attrs["project"])
		assert.Equal(t, "projects/p/topics/user-events", topic.Locator)
		assert.True(t, topic.DataProducer)
		assert.Equal(t, "source-pubsub-0", topic.NodeID)

		sub, ok := g.Resource("google_pubsub_subscription.user_events_sub")
		require.True(t, ok)
		assert.Equal(t, []string{"google_pubsub_topic.user_events"}, sub.DependsOn)
		assert.Equal(t, Ref{TargetID: "google_pubsub_topic.user_events", TargetAttr: "id"}, sub.Refs["topic"])

		dataset, ok := g.Resource("google_bigquery_dataset.analytics")
		require.True(t, ok)
		assert.Equal(t, "analytics", dataset.Attrs["dataset_id"])
		assert.Equal(t, "us-central1", dataset.Attrs["location"])

		table, ok := g.Resource("google_bigquery_table.processed_users")
		require.True(t, ok)
		assert.Equal(t, []string{"google_bigquery_dataset.analytics"}, table.DependsOn)
		assert.Equal(t, "p:analytics.processed_users", table.Locator)
	})

	t.Run("processing job depends on its input and output", func(t *testing.T) {
		g, err := Resolve(ctx, examplePipeline(t), reg, gcpProfile(t))
		require.NoError(t, err)

		services := g.Services()
		require.Len(t, services, 1)
		job := services[0]
		assert.Equal(t, "google_dataflow_job.transform_process_messages_1", job.ID)
		assert.Equal(t, "transform-process_messages-1", job.Name)
		assert.Equal(t, "google_pubsub_topic.user_events", job.Input)
		assert.Equal(t, "google_bigquery_table.processed_users", job.Output)
		assert.Equal(t, []string{
			"google_bigquery_table.processed_users",
			"google_pubsub_topic.user_events",
		}, job.DependsOn)
	})

	t.Run("optional parameters fall back to schema defaults", func(t *testing.T) {
		p, err := pipeline.Build([]component.Spec{
			component.NewSpec(component.RoleSource, "gcs", map[string]cty.Value{
				"bucket": cty.StringVal("landing"),
			}),
			component.NewSpec(component.RoleSink, "bigquery", map[string]cty.Value{
				"dataset": cty.StringVal("analytics"),
				"table":   cty.StringVal("raw"),
			}),
		})
		require.NoError(t, err)

		g, err := Resolve(ctx, p, reg, gcpProfile(t))
		require.NoError(t, err)

		bucket, ok := g.Resource("google_storage_bucket.landing")
		require.True(t, ok)
		// prefix defaults to "".
		assert.Equal(t, "gs://landing/", bucket.Locator)
	})

	t.Run("naming collision is a duplicate resource error", func(t *testing.T) {
		p, err := pipeline.Build([]component.Spec{
			component.NewSpec(component.RoleSource, "gcs", map[string]cty.Value{
				"bucket": cty.StringVal("shared"),
			}),
			component.NewSpec(component.RoleSink, "gcs", map[string]cty.Value{
				"bucket": cty.StringVal("shared"),
			}),
		})
		require.NoError(t, err)

		_, err = Resolve(ctx, p, reg, gcpProfile(t))
		var dup *DuplicateResourceError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "google_storage_bucket.shared", dup.ID)
		assert.Equal(t, "source-gcs-0", dup.FirstNode)
		assert.Equal(t, "sink-gcs-1", dup.SecondNode)
	})

	t.Run("resolution is deterministic", func(t *testing.T) {
		first, err := Resolve(ctx, examplePipeline(t), reg, gcpProfile(t))
		require.NoError(t, err)
		second, err := Resolve(ctx, examplePipeline(t), reg, gcpProfile(t))
		require.NoError(t, err)

		assert.Empty(t, cmp.Diff(first.Resources(), second.Resources()))
	})

	t.Run("resources only depend on same or linked nodes", func(t *testing.T) {
		g, err := Resolve(ctx, examplePipeline(t), reg, gcpProfile(t))
		require.NoError(t, err)

		for _, d := range g.Resources() {
			for _, depID := range d.DependsOn {
				_, ok := g.Resource(depID)
				assert.True(t, ok, "dependency %s of %s must be in the graph", depID, d.ID)
			}
		}
	})
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "user_events", sanitizeLabel("user-events"))
	assert.Equal(t, "a_b_c", sanitizeLabel("a.b/c"))
	assert.Equal(t, "_1stage", sanitizeLabel("1stage"))
}

func TestExpand(t *testing.T) {
	prof := profile.Profile{Provider: "gcp", Project: "p", Region: "r"}
	params := map[string]cty.Value{
		"topic": cty.StringVal("events"),
		"count": cty.NumberIntVal(3),
	}

	t.Run("substitutes the fixed placeholder set", func(t *testing.T) {
		out, err := expand("projects/${project}/topics/${param.topic}-${node}", params, prof, "n0")
		require.NoError(t, err)
		assert.Equal(t, "projects/p/topics/events-n0", out)
	})

	t.Run("numbers interpolate without exponent", func(t *testing.T) {
		out, err := expand("${param.count}", params, prof, "n0")
		require.NoError(t, err)
		assert.Equal(t, "3", out)
	})

	t.Run("unknown placeholder is an error", func(t *testing.T) {
		_, err := expand("${nope}", params, prof, "n0")
		assert.ErrorContains(t, err, "unknown placeholder")
	})

	t.Run("undeclared parameter is an error", func(t *testing.T) {
		_, err := expand("${param.missing}", params, prof, "n0")
		assert.ErrorContains(t, err, "undeclared parameter")
	})
}

package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/mz/pipeforge/internal/component"
)

func TestChain(t *testing.T) {
	t.Run("accumulates components in order", func(t *testing.T) {
		chain := NewChain().
			Source("pubsub", map[string]cty.Value{"topic": cty.StringVal("user-events")}).
			Transform("process_messages", nil).
			Sink("bigquery", map[string]cty.Value{
				"dataset": cty.StringVal("analytics"),
				"table":   cty.StringVal("processed_users"),
			})

		specs := chain.Specs()
		require.Len(t, specs, 3)
		assert.Equal(t, component.RoleSource, specs[0].Role)
		assert.Equal(t, "pubsub", specs[0].Kind)
		assert.Equal(t, component.RoleTransform, specs[1].Role)
		assert.Equal(t, component.RoleSink, specs[2].Role)
	})

	t.Run("append returns a new builder value", func(t *testing.T) {
		base := NewChain().Source("pubsub", map[string]cty.Value{"topic": cty.StringVal("t")})

		a := base.Sink("bigquery", map[string]cty.Value{
			"dataset": cty.StringVal("d"),
			"table":   cty.StringVal("a"),
		})
		b := base.Sink("gcs", map[string]cty.Value{"bucket": cty.StringVal("b")})

		require.Len(t, base.Specs(), 1)
		require.Len(t, a.Specs(), 2)
		require.Len(t, b.Specs(), 2)
		assert.Equal(t, "bigquery", a.Specs()[1].Kind)
		assert.Equal(t, "gcs", b.Specs()[1].Kind)
	})
}

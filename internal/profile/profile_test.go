package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("valid profile", func(t *testing.T) {
		p, err := New("gcp", "my-project", "us-central1", Options{AutoApprove: true})
		require.NoError(t, err)
		assert.Equal(t, "gcp", p.Provider)
		assert.True(t, p.Options.AutoApprove)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		_, err := New("gcp", "", "us-central1", Options{})
		assert.ErrorContains(t, err, "project")

		_, err = New("gcp", "p", "", Options{})
		assert.ErrorContains(t, err, "region")

		_, err = New("", "p", "r", Options{})
		assert.ErrorContains(t, err, "provider")
	})
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PIPEFORGE_PROJECT", "env-project")
	t.Setenv("PIPEFORGE_REGION", "europe-west1")
	t.Setenv("PIPEFORGE_AUTO_APPROVE", "true")
	t.Setenv("PIPEFORGE_STATE_BUCKET", "tf-state")

	p, err := FromEnv()
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, "gcp", p.Provider) // default
	assert.Equal(t, "env-project", p.Project)
	assert.Equal(t, "europe-west1", p.Region)
	assert.True(t, p.Options.AutoApprove)
	assert.Equal(t, "tf-state", p.Options.StateBucket)
	assert.Equal(t, ">= 1.5.0", p.Options.TerraformVersion) // default
}

package anthropic

import (
	"context"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginInit_APIKey(t *testing.T) {
	t.Run("explicit key", func(t *testing.T) {
		t.Setenv(apiKeyEnv, "")
		_, err := genkit.Init(context.Background(), genkit.WithPlugins(&Plugin{APIKey: "sk-explicit"}))
		assert.NoError(t, err)
	})

	t.Run("key from environment", func(t *testing.T) {
		t.Setenv(apiKeyEnv, "sk-env")
		_, err := genkit.Init(context.Background(), genkit.WithPlugins(&Plugin{}))
		assert.NoError(t, err)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Setenv(apiKeyEnv, "")
		_, err := genkit.Init(context.Background(), genkit.WithPlugins(&Plugin{}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), apiKeyEnv)
	})
}

func TestPluginInit_DefaultTimeout(t *testing.T) {
	p := &Plugin{APIKey: "sk-test"}
	_, err := genkit.Init(context.Background(), genkit.WithPlugins(p))
	require.NoError(t, err)
	assert.Equal(t, defaultRequestTimeout, p.RequestTimeout)
	assert.Equal(t, "anthropic", p.Name())
}

func TestModel_Registered(t *testing.T) {
	g, err := genkit.Init(context.Background(), genkit.WithPlugins(&Plugin{APIKey: "sk-test"}))
	require.NoError(t, err)

	for name := range knownModels {
		assert.NotNil(t, Model(g, name), name)
	}
	assert.Nil(t, Model(g, "claude-2-legacy"))
}

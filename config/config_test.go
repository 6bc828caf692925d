package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/habiliai/recallhub/config"
	"github.com/habiliai/recallhub/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "openai/gpt-4o-mini", c.AI.GenerationModel)
	assert.Equal(t, 30*time.Second, c.AI.ModelTimeout)
	assert.Equal(t, config.StoreDriverSqlite, c.Store.Driver)
	assert.Equal(t, 1536, c.Store.Dimension)
	assert.Equal(t, 10, c.Search.DefaultLimit)
	assert.Equal(t, 1, c.Search.OverFetchFactor)
	assert.Equal(t, 8000, c.Server.Port)
	assert.Equal(t, "mvp_demo_user_2024", c.Server.DefaultOwner)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STORE_DRIVER=memory\nSEARCH_OVERFETCH_FACTOR=3\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("STORE_DRIVER")
		os.Unsetenv("SEARCH_OVERFETCH_FACTOR")
	})

	c, err := config.Load(envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverMemory, c.Store.Driver)
	assert.Equal(t, 3, c.Search.OverFetchFactor)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		failed bool
	}{
		{name: "unknown driver", key: "STORE_DRIVER", value: "chroma", failed: true},
		{name: "postgres without dsn", key: "STORE_DRIVER", value: "postgres", failed: true},
		{name: "zero dimension", key: "EMBEDDING_DIMENSION", value: "0", failed: true},
		{name: "over-fetch below one", key: "SEARCH_OVERFETCH_FACTOR", value: "0", failed: true},
		{name: "model without provider", key: "GENERATION_MODEL", value: "gpt-4o", failed: true},
		{name: "memory driver", key: "STORE_DRIVER", value: "memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()
			if tt.failed {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

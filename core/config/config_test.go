package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cartsession/core/config"
)

type testConfig struct {
	Name string `env:"CONFIG_TEST_NAME" envDefault:"fallback"`
	Port int    `env:"CONFIG_TEST_PORT" envDefault:"8080"`
}

type cachedConfig struct {
	Value string `env:"CONFIG_TEST_CACHED" envDefault:"first"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults when env is unset", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "fallback", cfg.Name)
		assert.Equal(t, 8080, cfg.Port)
	})

	t.Run("reads values from environment", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_CACHED", "from-env")

		var cfg cachedConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "from-env", cfg.Value)
	})

	t.Run("caches per type", func(t *testing.T) {
		var first cachedConfig
		require.NoError(t, config.Load(&first))

		// Changing the environment after the first load must not
		// affect subsequent loads of the same type.
		t.Setenv("CONFIG_TEST_CACHED", "changed")

		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first.Value, second.Value)
	})

	t.Run("rejects non-pointer target", func(t *testing.T) {
		err := config.Load(testConfig{})
		assert.ErrorIs(t, err, config.ErrNotStructPointer)
	})

	t.Run("rejects nil pointer", func(t *testing.T) {
		var cfg *testConfig
		err := config.Load(cfg)
		assert.ErrorIs(t, err, config.ErrNotStructPointer)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on invalid target", func(t *testing.T) {
		assert.Panics(t, func() {
			config.MustLoad(nil)
		})
	})
}

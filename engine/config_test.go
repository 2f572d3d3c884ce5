package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/derlib/engine"
)

func TestDefaultConfiguration(t *testing.T) {
	t.Parallel()

	cfg := engine.DefaultConfiguration()
	assert.False(t, cfg.Delta)
	assert.False(t, cfg.Theta)
	assert.Equal(t, 1, cfg.ThetaDay)
	assert.Equal(t, 0.01, cfg.DeltaBumpRatio)
	assert.Equal(t, 0.0001, cfg.RhoBump)
	require.NoError(t, cfg.Validate())

	chained := cfg.WithDelta(true).WithTheta(true).WithThetaDay(200)
	assert.True(t, chained.Delta)
	assert.True(t, chained.Theta)
	assert.Equal(t, 200, chained.ThetaDay)
	// the receiver is untouched
	assert.False(t, cfg.Delta)
}

func TestLoadConfigurationYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
delta: true
gamma: true
rho: true
theta: true
theta_day: 200
delta_bump_ratio: 0.02
`), 0o644))

	cfg, err := engine.LoadConfiguration(path)
	require.NoError(t, err)
	assert.True(t, cfg.Delta)
	assert.True(t, cfg.Gamma)
	assert.True(t, cfg.Rho)
	assert.False(t, cfg.Vega)
	assert.Equal(t, 200, cfg.ThetaDay)
	assert.Equal(t, 0.02, cfg.DeltaBumpRatio)
	// untouched bumps keep their defaults
	assert.Equal(t, 0.0001, cfg.RhoBump)

	badPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("theta_day: -1\n"), 0o644))
	_, err = engine.LoadConfiguration(badPath)
	require.Error(t, err)

	_, err = engine.LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

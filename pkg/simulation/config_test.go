package simulation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfigs_AreValid(t *testing.T) {
	for name, cfg := range map[string]*Config{"2d": DefaultConfig(), "3d": Default3DConfig()} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, cfg.Validate())
			f, err := cfg.NewFlock()
			require.NoError(t, err)
			assert.Equal(t, cfg.NumBoids, f.Capacity())
			assert.False(t, f.Spawned())
		})
	}
}

func TestDefaultConfig_Boundary(t *testing.T) {
	b := DefaultConfig().Boundary()
	assert.Equal(t, 2, b.Dims)
	assert.Equal(t, 0.0, b.Min.X())
	assert.Equal(t, 1000.0, b.Max.X())

	b3 := Default3DConfig().Boundary()
	assert.Equal(t, 3, b3.Dims)
	assert.Equal(t, -50.0, b3.Min.X())
	assert.Equal(t, 35.0, b3.Max.Z())
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "flock.json", `{
		"numBoids": 42,
		"maxSpeed": 5,
		"containment": "wrap",
		"neighborSearch": "brute",
		"seed": 7
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.NumBoids)
	assert.Equal(t, 5.0, cfg.Params().MaxSpeed)
	assert.Equal(t, "wrap", cfg.Containment)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultConfig().VisualRange, cfg.VisualRange)

	f, err := cfg.NewFlock()
	require.NoError(t, err)
	assert.Equal(t, flock.ContainWrap, f.Containment())
}

func TestLoadConfig_TOML(t *testing.T) {
	path := writeFile(t, "tank.toml", `
preset = "3d"
numBoids = 300
visualRange = 3.5
updatePolicy = "snapshot"
workers = 2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.NumBoids)
	assert.Equal(t, 3.5, cfg.VisualRange)
	assert.Equal(t, 2, cfg.Workers)
	// overlaid on the 3D preset
	assert.Equal(t, 70.0, cfg.WorldDepth)
	assert.True(t, cfg.Centered)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown key", "a.json", `{"numRedAtStart": 5}`},
		{"wrong type", "b.json", `{"numBoids": "many"}`},
		{"negative speed", "c.json", `{"maxSpeed": -1}`},
		{"unknown containment", "d.json", `{"containment": "bounce"}`},
		{"separation beyond perception", "e.json", `{"visualRange": 5, "protectedRange": 10}`},
		{"sequential with grid", "f.json", `{"updatePolicy": "sequential", "neighborSearch": "grid"}`},
		{"broken toml", "g.toml", `numBoids = = 3`},
		{"unsupported format", "h.yaml", `numBoids: 3`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestConfig_ApplyParams(t *testing.T) {
	cfg := DefaultConfig()

	next, err := cfg.ApplyParams(map[string]any{"maxSpeed": 6.0, "matchingFactor": 0.1})
	require.NoError(t, err)
	assert.Equal(t, 6.0, next.MaxSpeed)
	assert.Equal(t, 0.1, next.Params().AlignmentWeight)
	assert.Equal(t, 3.0, cfg.MaxSpeed, "the receiver must not change")

	tests := []struct {
		name   string
		update map[string]any
	}{
		{"restart-only key", map[string]any{"numBoids": 10.0}},
		{"unknown key", map[string]any{"aggression": 1.0}},
		{"schema violation", map[string]any{"maxSpeed": -2.0}},
		{"params invariant", map[string]any{"protectedRange": 500.0}},
		{"bad alignment form", map[string]any{"alignment": "sideways"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cfg.ApplyParams(tt.update)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfig_NewTarget(t *testing.T) {
	cfg := DefaultConfig()
	target := cfg.NewTarget()
	require.NotNil(t, target)
	assert.Equal(t, cfg.Boundary().Center(), target.Position)
	assert.Equal(t, cfg.TargetRadius, target.Radius)
	assert.False(t, target.DepthKeys)

	cfg3d := Default3DConfig()
	cfg3d.Target = true
	deep := cfg3d.NewTarget()
	require.NotNil(t, deep)
	assert.True(t, deep.DepthKeys, "3D worlds are steered in the horizontal plane")

	cfg.Target = false
	assert.Nil(t, cfg.NewTarget())
}

func TestLoadConfig_ShippedFiles(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "configs", "*"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			cfg, err := LoadConfig(file)
			require.NoError(t, err)
			_, err = cfg.NewFlock()
			assert.NoError(t, err)
		})
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-snake/pkg/grid"
)

// chdirTemp isolates a test from any .env file in the package directory.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 40, cfg.Grid.Cols)
	assert.Equal(t, 20, cfg.Grid.Rows)
	assert.Equal(t, grid.Right, cfg.Direction())
	assert.Equal(t, 500*time.Millisecond, cfg.Speed.Initial)
	assert.Equal(t, 100*time.Millisecond, cfg.Speed.Min)
	assert.Equal(t, 10*time.Millisecond, cfg.Speed.Step)
	assert.Equal(t, RendererTerminal, cfg.Renderer)
	assert.NoError(t, cfg.Validate())

	_, ok := cfg.StartPosition()
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*GameConfig)
		field  string
	}{
		{"zero cols", func(c *GameConfig) { c.Grid.Cols = 0 }, "grid"},
		{"single cell", func(c *GameConfig) { c.Grid.Cols, c.Grid.Rows = 1, 1 }, "grid"},
		{"bad direction", func(c *GameConfig) { c.Snake.Direction = "north" }, "snake.direction"},
		{"start outside", func(c *GameConfig) { c.Snake.Start = &StartConfig{X: 40, Y: 0} }, "snake.start"},
		{"zero initial", func(c *GameConfig) { c.Speed.Initial = 0 }, "speed"},
		{"min above initial", func(c *GameConfig) { c.Speed.Min = time.Second }, "speed.min"},
		{"negative step", func(c *GameConfig) { c.Speed.Step = -time.Millisecond }, "speed.step"},
		{"no apples", func(c *GameConfig) { c.Rules.Apples = 0 }, "rules.apples"},
		{"negative score", func(c *GameConfig) { c.Rules.AppleScore = -1 }, "rules.apple_score"},
		{"unknown renderer", func(c *GameConfig) { c.Renderer = "svga" }, "renderer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestValidate_StartInside(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Snake.Start = &StartConfig{X: 3, Y: 4}
	require.NoError(t, cfg.Validate())

	pos, ok := cfg.StartPosition()
	assert.True(t, ok)
	assert.Equal(t, grid.Pos(3, 4), pos)
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_File(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "snake.yaml")
	content := `
grid:
  cols: 12
  rows: 8
snake:
  direction: up
  start:
    x: 2
    y: 3
speed:
  initial: 300ms
renderer: engo
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Grid.Cols)
	assert.Equal(t, 8, cfg.Grid.Rows)
	assert.Equal(t, grid.Up, cfg.Direction())
	assert.Equal(t, 300*time.Millisecond, cfg.Speed.Initial)
	assert.Equal(t, 100*time.Millisecond, cfg.Speed.Min)
	assert.Equal(t, RendererEngo, cfg.Renderer)

	pos, ok := cfg.StartPosition()
	require.True(t, ok)
	assert.Equal(t, grid.Pos(2, 3), pos)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	dir := chdirTemp(t)

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidFileRejected(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "snake.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"grid":{"cols":1,"rows":1}}`), 0o644))

	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoadConfig_Environment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SNAKE_GRID_COLS", "25")
	t.Setenv("SNAKE_SPEED_STEP", "5ms")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Grid.Cols)
	assert.Equal(t, 5*time.Millisecond, cfg.Speed.Step)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SNAKE_GRID_ROWS=15\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("SNAKE_GRID_ROWS") })

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Grid.Rows)
}

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SNAKE_GRID_COLS", "25")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--cols=30", "--renderer=engo", "--seed=7", "--fit"}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Grid.Cols)
	assert.True(t, cfg.Grid.Fit)
	assert.Equal(t, 20, cfg.Grid.Rows, "unset flags keep lower layers")
	assert.Equal(t, RendererEngo, cfg.Renderer)
	assert.Equal(t, uint64(7), cfg.Seed)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "saved.yaml")

	original := DefaultConfig()
	original.Grid.Cols = 16
	original.Snake.Start = &StartConfig{X: 1, Y: 1}
	original.Speed.Min = 50 * time.Millisecond
	require.NoError(t, SaveConfig(original, path))

	loaded, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestSaveConfig_Nil(t *testing.T) {
	err := SaveConfig(nil, filepath.Join(t.TempDir(), "x.yaml"))
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

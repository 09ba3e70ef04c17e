// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/opd-ai/go-snake/pkg/grid"
	"github.com/opd-ai/go-snake/pkg/logging"
)

// EnvPrefix is prepended to every environment override, e.g. SNAKE_GRID_COLS.
const EnvPrefix = "SNAKE"

// Renderer names accepted by the renderer setting.
const (
	RendererTerminal = "terminal"
	RendererEngo     = "engo"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// GameConfig contains configuration for a snake session
type GameConfig struct {
	Grid     GridConfig     `mapstructure:"grid"`
	Snake    SnakeConfig    `mapstructure:"snake"`
	Speed    SpeedConfig    `mapstructure:"speed"`
	Rules    RulesConfig    `mapstructure:"rules"`
	Log      logging.Config `mapstructure:"log"`
	Renderer string         `mapstructure:"renderer"`
	// Seed fixes entity placement; 0 uses the process-wide random source.
	Seed uint64 `mapstructure:"seed"`
}

// GridConfig contains the board dimensions. Fit asks the terminal
// front-end to size the board to the screen instead.
type GridConfig struct {
	Cols int  `mapstructure:"cols"`
	Rows int  `mapstructure:"rows"`
	Fit  bool `mapstructure:"fit"`
}

// SnakeConfig contains the initial heading and position
type SnakeConfig struct {
	Direction string `mapstructure:"direction"`
	// Start is optional; nil places the snake at the grid center.
	Start *StartConfig `mapstructure:"start"`
}

// StartConfig is a grid cell
type StartConfig struct {
	X int `mapstructure:"x"`
	Y int `mapstructure:"y"`
}

// SpeedConfig controls the tick interval. Every apple eaten shortens the
// interval by Step until it reaches Min.
type SpeedConfig struct {
	Initial time.Duration `mapstructure:"initial"`
	Min     time.Duration `mapstructure:"min"`
	Step    time.Duration `mapstructure:"step"`
}

// RulesConfig contains scoring rules
type RulesConfig struct {
	Apples     int `mapstructure:"apples"`
	AppleScore int `mapstructure:"apple_score"`
}

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Grid: GridConfig{
			Cols: 40,
			Rows: 20,
		},
		Snake: SnakeConfig{
			Direction: grid.Right.String(),
		},
		Speed: SpeedConfig{
			Initial: 500 * time.Millisecond,
			Min:     100 * time.Millisecond,
			Step:    10 * time.Millisecond,
		},
		Rules: RulesConfig{
			Apples:     1,
			AppleScore: 1,
		},
		Log: logging.Config{
			Level:    "info",
			Encoding: "json",
			File:     "snake.log",
		},
		Renderer: RendererTerminal,
	}
}

// RegisterFlags defines the command-line flags understood by LoadConfig.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to configuration file (yaml, json or toml)")
	fs.Int("cols", 0, "Grid columns")
	fs.Int("rows", 0, "Grid rows")
	fs.Bool("fit", false, "Size the grid to the terminal window")
	fs.String("direction", "", "Initial direction: up, down, left or right")
	fs.String("renderer", "", "Renderer type: 'terminal' or 'engo'")
	fs.Uint64("seed", 0, "Random seed for entity placement (0 = random)")
	fs.String("log-level", "", "Log level: debug, info, warn or error")
	fs.String("log-file", "", "Log file path")
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"cols":      "grid.cols",
	"rows":      "grid.rows",
	"fit":       "grid.fit",
	"direction": "snake.direction",
	"renderer":  "renderer",
	"seed":      "seed",
	"log-level": "log.level",
	"log-file":  "log.file",
}

// LoadConfig layers, from lowest to highest priority: defaults, the file at
// path (if any), a .env file in the working directory, SNAKE_* environment
// variables and explicitly set flags. The result is validated.
func LoadConfig(path string, flags *pflag.FlagSet) (*GameConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, oops.In("config").Wrapf(err, "failed to load .env file")
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, oops.
				In("config").
				With("path", path).
				Wrapf(err, "failed to read config file")
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, oops.In("config").With("flag", name).Wrapf(err, "failed to bind flag")
				}
			}
		}
	}

	var cfg GameConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, oops.In("config").Wrapf(err, "failed to parse configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig writes config to path; the format follows the file extension.
func SaveConfig(config *GameConfig, path string) error {
	if config == nil {
		return oops.In("config").Code("nil_config").Wrapf(ErrInvalidConfig, "cannot save nil config")
	}

	v := viper.New()
	setDefaults(v, config)
	if config.Snake.Start != nil {
		v.Set("snake.start.x", config.Snake.Start.X)
		v.Set("snake.start.y", config.Snake.Start.Y)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return oops.In("config").With("path", path).Wrapf(err, "failed to write config file")
	}
	return nil
}

func setDefaults(v *viper.Viper, c *GameConfig) {
	v.SetDefault("grid.cols", c.Grid.Cols)
	v.SetDefault("grid.rows", c.Grid.Rows)
	v.SetDefault("grid.fit", c.Grid.Fit)
	v.SetDefault("snake.direction", c.Snake.Direction)
	v.SetDefault("speed.initial", c.Speed.Initial.String())
	v.SetDefault("speed.min", c.Speed.Min.String())
	v.SetDefault("speed.step", c.Speed.Step.String())
	v.SetDefault("rules.apples", c.Rules.Apples)
	v.SetDefault("rules.apple_score", c.Rules.AppleScore)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.encoding", c.Log.Encoding)
	v.SetDefault("log.file", c.Log.File)
	v.SetDefault("renderer", c.Renderer)
	v.SetDefault("seed", c.Seed)
}

// Validate checks that the configuration can build a playable session.
func (c *GameConfig) Validate() error {
	invalid := func(field string, value any, format string, args ...any) error {
		return oops.
			Code("invalid_config").
			In("config").
			With("field", field, "value", value).
			Wrapf(ErrInvalidConfig, format, args...)
	}

	if _, err := grid.New(c.Grid.Cols, c.Grid.Rows); err != nil {
		return invalid("grid", c.Grid, "grid %dx%d cannot hold a game", c.Grid.Cols, c.Grid.Rows)
	}
	if _, err := grid.ParseDirection(c.Snake.Direction); err != nil {
		return invalid("snake.direction", c.Snake.Direction, "unknown direction %q", c.Snake.Direction)
	}
	if s := c.Snake.Start; s != nil {
		if s.X < 0 || s.X >= c.Grid.Cols || s.Y < 0 || s.Y >= c.Grid.Rows {
			return invalid("snake.start", *s, "start (%d,%d) is outside the grid", s.X, s.Y)
		}
	}
	if c.Speed.Initial <= 0 || c.Speed.Min <= 0 {
		return invalid("speed", c.Speed, "tick intervals must be positive")
	}
	if c.Speed.Min > c.Speed.Initial {
		return invalid("speed.min", c.Speed.Min, "minimum interval %s exceeds initial %s", c.Speed.Min, c.Speed.Initial)
	}
	if c.Speed.Step < 0 {
		return invalid("speed.step", c.Speed.Step, "speed step must not be negative")
	}
	if c.Rules.Apples < 1 {
		return invalid("rules.apples", c.Rules.Apples, "at least one apple is required")
	}
	if c.Rules.AppleScore < 0 {
		return invalid("rules.apple_score", c.Rules.AppleScore, "apple score must not be negative")
	}
	switch c.Renderer {
	case RendererTerminal, RendererEngo:
	default:
		return invalid("renderer", c.Renderer, "unknown renderer %q", c.Renderer)
	}
	return nil
}

// Direction returns the parsed initial direction.
func (c *GameConfig) Direction() grid.Direction {
	d, err := grid.ParseDirection(c.Snake.Direction)
	if err != nil {
		return grid.Right
	}
	return d
}

// StartPosition returns the configured start cell, if any.
func (c *GameConfig) StartPosition() (grid.Position, bool) {
	if c.Snake.Start == nil {
		return grid.Position{}, false
	}
	return grid.Pos(c.Snake.Start.X, c.Snake.Start.Y), true
}

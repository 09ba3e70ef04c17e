// cmd/snake/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/opd-ai/go-snake/pkg/config"
	"github.com/opd-ai/go-snake/pkg/engine"
	"github.com/opd-ai/go-snake/pkg/event"
	"github.com/opd-ai/go-snake/pkg/logging"
	"github.com/opd-ai/go-snake/pkg/render"
	engorender "github.com/opd-ai/go-snake/pkg/render/engo"
	"github.com/opd-ai/go-snake/pkg/render/term"
)

func main() {
	flags := pflag.NewFlagSet("snake", pflag.ExitOnError)
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])

	configPath, _ := flags.GetString("config")
	cfg, err := config.LoadConfig(configPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	ctx := logging.WithCorrelationID(context.Background(), "")
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "Snake exited with error", err)
		logger.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.GameConfig, logger *logging.Logger) error {
	if cfg.Grid.Fit && cfg.Renderer == config.RendererTerminal {
		if err := fitTerminal(cfg); err != nil {
			return err
		}
	}

	bus := event.NewEventBus()
	subscribeEvents(ctx, bus, logger)

	session, err := engine.NewSession(ctx, cfg,
		engine.WithSessionLogger(logger),
		engine.WithEventBus(bus))
	if err != nil {
		return err
	}
	driver := render.NewDriver(session, logger)

	logger.Info(ctx, "Starting snake",
		"renderer", cfg.Renderer,
		"cols", cfg.Grid.Cols,
		"rows", cfg.Grid.Rows,
		"seed", cfg.Seed)

	switch cfg.Renderer {
	case config.RendererEngo:
		engorender.Run(ctx, driver, logger)
	default:
		term.Run(ctx, driver, logger)
	}

	final := driver.Session()
	logger.Info(ctx, "Snake stopped",
		"score", final.Score(),
		"state", final.State().String(),
		"steps", final.Steps())
	return nil
}

// fitTerminal replaces the configured grid size with the terminal's.
func fitTerminal(cfg *config.GameConfig) error {
	cols, rows, err := term.ScreenGrid()
	if err != nil {
		return err
	}
	cfg.Grid.Cols, cfg.Grid.Rows = cols, rows
	return cfg.Validate()
}

// subscribeEvents logs the session lifecycle.
func subscribeEvents(ctx context.Context, bus *event.Bus, logger *logging.Logger) {
	logger = logger.WithComponent("events")

	bus.Subscribe(event.GameStarted, func(e event.Event) {
		logger.Info(ctx, "Game started")
	})

	bus.Subscribe(event.ScoreChanged, func(e event.Event) {
		if se, ok := e.(*event.ScoreEvent); ok {
			logger.Debug(ctx, "Score changed", "score", se.Score, "delta", se.Delta)
		}
	})

	bus.Subscribe(event.GameEnded, func(e event.Event) {
		if ge, ok := e.(*event.GameEndedEvent); ok {
			logger.Info(ctx, "Game ended",
				"reason", string(ge.Reason),
				"score", ge.Score,
				"head", ge.Head.String())
		}
	})
}

// pkg/render/engo/input.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-snake/pkg/logging"
	"github.com/opd-ai/go-snake/pkg/render"
)

// buttonCommands lists the registered buttons in polling order.
var buttonCommands = []struct {
	button  string
	command render.Command
}{
	{"up", render.CommandUp},
	{"down", render.CommandDown},
	{"left", render.CommandLeft},
	{"right", render.CommandRight},
	{"pause", render.CommandPause},
	{"restart", render.CommandRestart},
	{"quit", render.CommandQuit},
}

// InputSystem turns key presses into driver commands
type InputSystem struct {
	ctx    context.Context
	driver *render.Driver
	logger *logging.Logger
	exit   func()
}

// NewInputSystem creates a new input system
func NewInputSystem(ctx context.Context, driver *render.Driver, logger *logging.Logger) *InputSystem {
	return &InputSystem{
		ctx:    ctx,
		driver: driver,
		logger: logger,
		exit:   engo.Exit,
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {
	// Not used for input system
}

// Update polls the registered buttons once per frame.
func (is *InputSystem) Update(dt float32) {
	for _, bc := range buttonCommands {
		if engo.Input.Button(bc.button).JustPressed() {
			is.apply(bc.command)
		}
	}
}

func (is *InputSystem) apply(cmd render.Command) {
	if cmd == render.CommandQuit {
		is.logger.Info(is.ctx, "Quit requested", "score", is.driver.Session().Score())
		is.exit()
		return
	}
	if err := is.driver.Handle(is.ctx, cmd); err != nil {
		is.logger.Warn(is.ctx, "Command rejected", "command", int(cmd), "error", err.Error())
	}
}

// SetupInputBindings sets up the key bindings for the game
func SetupInputBindings() {
	engo.Input.RegisterButton("up", engo.KeyArrowUp, engo.KeyW)
	engo.Input.RegisterButton("down", engo.KeyArrowDown, engo.KeyS)
	engo.Input.RegisterButton("left", engo.KeyArrowLeft, engo.KeyA)
	engo.Input.RegisterButton("right", engo.KeyArrowRight, engo.KeyD)
	engo.Input.RegisterButton("pause", engo.KeyP)
	engo.Input.RegisterButton("restart", engo.KeyR)
	engo.Input.RegisterButton("quit", engo.KeyEscape)
}

// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-snake/pkg/logging"
	"github.com/opd-ai/go-snake/pkg/render"
)

// DefaultCellSize is the side of one grid cell in pixels.
const DefaultCellSize = 20

// GameScene represents the main game scene in Engo
type GameScene struct {
	ctx    context.Context
	driver *render.Driver
	logger *logging.Logger

	renderer *EngoRenderer
	input    *InputSystem
	hud      *HUDSystem
}

// NewGameScene creates a new game scene
func NewGameScene(ctx context.Context, driver *render.Driver, logger *logging.Logger, cellSize float32) *GameScene {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.WithComponent("engo")
	cols, rows := driver.Session().Game().Dimensions()

	return &GameScene{
		ctx:      ctx,
		driver:   driver,
		logger:   logger,
		renderer: NewEngoRenderer(cols, rows, cellSize, DefaultPalette()),
		input:    NewInputSystem(ctx, driver, logger),
		hud:      NewHUDSystem(driver),
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "GameScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(color.Black)

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)
	scene.renderer.AddTo(renderSystem)

	SetupInputBindings()
	world.AddSystem(scene.input)
	world.AddSystem(&loopSystem{scene: scene})
	world.AddSystem(scene.hud)

	scene.logger.Info(scene.ctx, "Scene ready", "session_id", scene.driver.Session().ID())
}

// Exit is called when the scene is exiting
func (scene *GameScene) Exit() {
	s := scene.driver.Session()
	scene.logger.Info(scene.ctx, "Window closed", "score", s.Score(), "state", s.State().String())
}

// update advances the session by dt seconds and redraws the board.
func (scene *GameScene) update(dt float32) {
	elapsed := time.Duration(float64(dt) * float64(time.Second))
	if _, err := scene.driver.Advance(scene.ctx, elapsed); err != nil {
		scene.logger.Error(scene.ctx, "Tick failed", err)
	}
	render.Frame(scene.renderer, scene.driver.Session().Snapshot())
}

// loopSystem drives the session from the engo frame clock.
type loopSystem struct {
	scene *GameScene
}

func (l *loopSystem) Update(dt float32) { l.scene.update(dt) }

func (l *loopSystem) Remove(ecs.BasicEntity) {}

// Run opens a window for driver's session and blocks until it is closed.
func Run(ctx context.Context, driver *render.Driver, logger *logging.Logger) {
	scene := NewGameScene(ctx, driver, logger, DefaultCellSize)
	width, height := scene.renderer.Size()

	engo.Run(engo.RunOptions{
		Title:          "Snake",
		Width:          int(width),
		Height:         int(height),
		NotResizable:   true,
		StandardInputs: false,
	}, scene)
}

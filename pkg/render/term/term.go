// Package term is the terminal front-end, drawn with termloop.
package term

import (
	"context"
	"sync"
	"time"

	tl "github.com/JoelOtter/termloop"
	"github.com/nsf/termbox-go"
	"github.com/samber/oops"

	"github.com/opd-ai/go-snake/pkg/logging"
	"github.com/opd-ai/go-snake/pkg/render"
)

// Colors used for each glyph class
const (
	snakeColor  = tl.ColorGreen
	appleColor  = tl.ColorRed
	otherColor  = tl.ColorYellow
	borderColor = tl.ColorWhite
)

// Screen cells taken by the border and the status line
const (
	chromeCols = 2
	chromeRows = 3
)

// KeyCommand maps a termloop key event to a command: arrows and WASD
// steer, p pauses, r restarts and q quits.
func KeyCommand(ev tl.Event) render.Command {
	if ev.Type != tl.EventKey {
		return render.CommandNone
	}
	switch ev.Key {
	case tl.KeyArrowUp:
		return render.CommandUp
	case tl.KeyArrowDown:
		return render.CommandDown
	case tl.KeyArrowLeft:
		return render.CommandLeft
	case tl.KeyArrowRight:
		return render.CommandRight
	case tl.KeyCtrlC:
		return render.CommandQuit
	}
	if ev.Ch == 'q' || ev.Ch == 'Q' {
		return render.CommandQuit
	}
	return render.CommandForRune(ev.Ch)
}

// Board is the termloop drawable that owns the game loop. Every frame it
// steps the session as often as the tick interval allows, renders the
// board into a glyph buffer and copies it to the screen.
type Board struct {
	ctx    context.Context
	driver *render.Driver
	logger *logging.Logger
	glyphs *render.GlyphRenderer
	cols   int
	rows   int

	quit     chan struct{}
	quitOnce sync.Once
}

// NewBoard creates the drawable for driver's session.
func NewBoard(ctx context.Context, driver *render.Driver, logger *logging.Logger) *Board {
	if logger == nil {
		logger = logging.NewNop()
	}
	cols, rows := driver.Session().Game().Dimensions()
	return &Board{
		ctx:    ctx,
		driver: driver,
		logger: logger.WithComponent("term"),
		glyphs: render.NewGlyphRenderer(cols, rows, nil),
		cols:   cols,
		rows:   rows,
		quit:   make(chan struct{}),
	}
}

// Quit is closed once the player asks to leave.
func (b *Board) Quit() <-chan struct{} {
	return b.quit
}

// Tick implements tl.Drawable
func (b *Board) Tick(ev tl.Event) {
	cmd := KeyCommand(ev)
	switch cmd {
	case render.CommandNone:
		return
	case render.CommandQuit:
		b.quitOnce.Do(func() {
			b.logger.Info(b.ctx, "Quit requested")
			close(b.quit)
		})
		return
	}
	if err := b.driver.Handle(b.ctx, cmd); err != nil {
		b.logger.Warn(b.ctx, "Command rejected", "command", int(cmd), "error", err.Error())
	}
}

// Draw implements tl.Drawable
func (b *Board) Draw(screen *tl.Screen) {
	dt := time.Duration(screen.TimeDelta() * float64(time.Second))
	if _, err := b.driver.Advance(b.ctx, dt); err != nil {
		b.logger.Error(b.ctx, "Tick failed", err)
	}

	render.Frame(b.glyphs, b.driver.Session().Snapshot())

	// Border cells sit at -1 and cols/rows in board coordinates, so the
	// board itself is offset by one cell.
	for x := -1; x <= b.cols; x++ {
		b.put(screen, x, -1, '-', borderColor)
		b.put(screen, x, b.rows, '-', borderColor)
	}
	for y := 0; y < b.rows; y++ {
		b.put(screen, -1, y, '|', borderColor)
		b.put(screen, b.cols, y, '|', borderColor)
		for x := 0; x < b.cols; x++ {
			ch := b.glyphs.Cell(x, y)
			b.put(screen, x, y, ch, glyphColor(ch))
		}
	}

	for i, ch := range []rune(b.driver.Status()) {
		b.put(screen, i-1, b.rows+1, ch, tl.ColorDefault)
	}
}

func (b *Board) put(screen *tl.Screen, x, y int, ch rune, fg tl.Attr) {
	screen.RenderCell(x+1, y+1, &tl.Cell{Fg: fg, Ch: ch})
}

func glyphColor(ch rune) tl.Attr {
	switch ch {
	case render.GlyphEmpty:
		return tl.ColorDefault
	case render.GlyphApple:
		return appleColor
	case render.GlyphUnknown:
		return otherColor
	case render.GlyphHorizontal, render.GlyphVertical, render.GlyphCorner, '^', 'v', '<', '>':
		return snakeColor
	default:
		return otherColor
	}
}

// FitGrid returns the largest board that fits a width x height terminal
// together with its border and status line.
func FitGrid(width, height int) (cols, rows int) {
	return width - chromeCols, height - chromeRows
}

// ScreenGrid measures the terminal and returns the board size FitGrid
// allows for it.
func ScreenGrid() (cols, rows int, err error) {
	if err := termbox.Init(); err != nil {
		return 0, 0, oops.In("term").Wrapf(err, "failed to open terminal")
	}
	defer termbox.Close()
	cols, rows = FitGrid(termbox.Size())
	return cols, rows, nil
}

// Run opens the terminal UI and blocks until Ctrl+C, q or ctx is done.
// The terminal is restored before Run returns.
func Run(ctx context.Context, driver *render.Driver, logger *logging.Logger) {
	board := NewBoard(ctx, driver, logger)
	game := tl.NewGame()
	game.Screen().SetFps(60)
	game.Screen().AddEntity(board)

	done := make(chan struct{})
	go func() {
		defer close(done)
		game.Start()
	}()

	select {
	case <-done:
	case <-board.Quit():
		termbox.Close()
	case <-ctx.Done():
		termbox.Close()
	}
}

package render

import (
	"bytes"
	"io"
	"strings"

	"github.com/opd-ai/go-snake/pkg/entity"
	"github.com/opd-ai/go-snake/pkg/grid"
)

// Glyphs used by GlyphRenderer
const (
	GlyphEmpty      = ' '
	GlyphHorizontal = '-'
	GlyphVertical   = '|'
	GlyphCorner     = '+'
	GlyphApple      = 'o'
	GlyphUnknown    = '?'
)

// HeadGlyph returns the rune drawn for a head moving in d.
func HeadGlyph(d grid.Direction) rune {
	switch d {
	case grid.Up:
		return '^'
	case grid.Down:
		return 'v'
	case grid.Left:
		return '<'
	default:
		return '>'
	}
}

// GlyphRenderer provides ASCII rendering of the board, one rune per cell.
// Other front-ends read the buffer back through Cell.
type GlyphRenderer struct {
	cols        int
	rows        int
	buffer      [][]rune
	glyphs      map[entity.Kind]rune
	out         io.Writer
	clearScreen bool
	err         error
}

// NewGlyphRenderer creates a renderer for a cols x rows board that writes
// to out on Present. out may be nil when only the buffer is needed.
func NewGlyphRenderer(cols, rows int, out io.Writer) *GlyphRenderer {
	buffer := make([][]rune, rows)
	for i := range buffer {
		buffer[i] = make([]rune, cols)
	}

	r := &GlyphRenderer{
		cols:   cols,
		rows:   rows,
		buffer: buffer,
		glyphs: map[entity.Kind]rune{entity.KindApple: GlyphApple},
		out:    out,
	}
	r.Clear()
	return r
}

// SetGlyph sets the rune drawn for entities of kind.
func (r *GlyphRenderer) SetGlyph(kind entity.Kind, glyph rune) {
	r.glyphs[kind] = glyph
}

// SetClearScreen makes Present emit an ANSI clear-screen sequence first.
func (r *GlyphRenderer) SetClearScreen(on bool) {
	r.clearScreen = on
}

// Clear implements Renderer
func (r *GlyphRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = GlyphEmpty
		}
	}
}

// RenderEntity implements Renderer
func (r *GlyphRenderer) RenderEntity(e entity.Entity) {
	glyph, ok := r.glyphs[e.Kind()]
	if !ok {
		glyph = GlyphUnknown
	}
	r.set(e.Position(), glyph)
}

// RenderSnake implements Renderer. Segments outside the board are skipped,
// which happens for the head on the tick the snake hits a wall.
func (r *GlyphRenderer) RenderSnake(body []grid.Position, dir grid.Direction) {
	for i := len(body) - 1; i > 0; i-- {
		r.set(body[i], segmentGlyph(body, i))
	}
	if len(body) > 0 {
		r.set(body[0], HeadGlyph(dir))
	}
}

// segmentGlyph picks the rune for body[i], i > 0, from its neighbours.
func segmentGlyph(body []grid.Position, i int) rune {
	prev := body[i-1]
	if i == len(body)-1 {
		if prev.Y == body[i].Y {
			return GlyphHorizontal
		}
		return GlyphVertical
	}

	next := body[i+1]
	switch {
	case prev.Y == next.Y:
		return GlyphHorizontal
	case prev.X == next.X:
		return GlyphVertical
	default:
		return GlyphCorner
	}
}

func (r *GlyphRenderer) set(p grid.Position, glyph rune) {
	if p.X >= 0 && p.X < r.cols && p.Y >= 0 && p.Y < r.rows {
		r.buffer[p.Y][p.X] = glyph
	}
}

// Cell returns the rune at (x, y), or GlyphEmpty outside the board.
func (r *GlyphRenderer) Cell(x, y int) rune {
	if x < 0 || x >= r.cols || y < 0 || y >= r.rows {
		return GlyphEmpty
	}
	return r.buffer[y][x]
}

// Present implements Renderer. A write error is kept and reported by Err.
func (r *GlyphRenderer) Present() {
	if r.out == nil {
		return
	}
	_, r.err = r.WriteTo(r.out)
}

// Err returns the error from the last Present, if any.
func (r *GlyphRenderer) Err() error {
	return r.err
}

// WriteTo writes the framed buffer to w.
func (r *GlyphRenderer) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if r.clearScreen {
		buf.WriteString("\033[H\033[2J")
	}
	buf.WriteString(r.String())
	return buf.WriteTo(w)
}

// String returns the buffer surrounded by a border.
func (r *GlyphRenderer) String() string {
	var sb strings.Builder
	border := "+" + strings.Repeat("-", r.cols) + "+\n"

	sb.WriteString(border)
	for y := range r.buffer {
		sb.WriteByte('|')
		sb.WriteString(string(r.buffer[y]))
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	return sb.String()
}

package tui

import (
	"strings"

	"github.com/okian/runscope/internal/domain/series"
	"github.com/okian/runscope/internal/viewer"
)

const (
	lineGlyph      = '·'
	dotGlyph       = '●'
	indicatorGlyph = '█'
	skeletonGlyph  = '░'
)

// canvas is a character grid with one cell per graph pixel.
type canvas struct {
	w, h  int
	cells [][]rune
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]rune, h)}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", w))
	}
	return c
}

func (c *canvas) set(p series.Point, r rune) {
	if p.X < 0 || p.Y < 0 || p.X >= c.w || p.Y >= c.h {
		return
	}
	c.cells[p.Y][p.X] = r
}

// line draws a Bresenham segment from a to b.
func (c *canvas) line(a, b series.Point, r rune) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(a, r)
		if a == b {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			a.X += sx
		}
		if e2 <= dx {
			err += dx
			a.Y += sy
		}
	}
}

func (c *canvas) String() string {
	rows := make([]string, len(c.cells))
	for y, row := range c.cells {
		rows[y] = string(row)
	}
	return strings.Join(rows, "\n")
}

// renderGraph draws the frame's series. The indicator is drawn last so it
// sits on top of the line.
func renderGraph(f viewer.Frame) string {
	w, h := f.Bounds.W, f.Bounds.H
	if w <= 0 || h <= 0 {
		return ""
	}
	if f.DetailState == viewer.Loading {
		return skeletonStyle.Render(renderSkeleton(w, h))
	}

	c := newCanvas(w, h)
	switch f.Graph {
	case viewer.GraphLine:
		for i := 1; i < len(f.Points); i++ {
			c.line(f.Points[i-1], f.Points[i], lineGlyph)
		}
	case viewer.GraphDots:
		for _, p := range f.Points {
			c.set(p, dotGlyph)
		}
	}
	if f.HasIndicator {
		c.set(f.Indicator, indicatorGlyph)
	}

	out := lineStyle.Render(c.String())
	if f.HasIndicator {
		// Re-style the indicator cell on top of the line colour.
		out = strings.Replace(out, string(indicatorGlyph), indicatorStyle.Render(string(indicatorGlyph)), 1)
	}
	return out
}

func renderSkeleton(w, h int) string {
	rows := make([]string, h)
	for y := range rows {
		switch {
		case y == h-1:
			rows[y] = strings.Repeat(string(skeletonGlyph), w)
		case y%2 == 1:
			rows[y] = strings.Repeat(string(skeletonGlyph), w*(y+1)/(h+1))
		}
	}
	return strings.Join(rows, "\n")
}

// shift moves a block vertically by offset rows inside a window of height
// rows, clipping what falls outside.
func shift(block string, height, offset int) string {
	lines := strings.Split(block, "\n")
	out := make([]string, height)
	for i := range out {
		src := i - offset
		if src >= 0 && src < len(lines) {
			out[i] = lines[src]
		}
	}
	return strings.Join(out, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package tui

import (
	"math"
	"sync/atomic"

	"github.com/dyluth/factorydash/internal/particles"
	"github.com/gdamore/tcell/v2"
)

// A terminal cell stands in for this many pixels of the particle viewport.
const (
	cellWidth  = 8
	cellHeight = 16
)

func pixels(cols, rows int) (float64, float64) {
	return float64(cols * cellWidth), float64(rows * cellHeight)
}

func cell(v particles.Vec) (int, int) {
	return int(math.Floor(v.X / cellWidth)), int(math.Floor(v.Y / cellHeight))
}

// frameBuffer keeps the latest frame from the field loop for the draw loop.
// Rendering only stores, so Field.Stop never waits on the screen.
type frameBuffer struct {
	latest atomic.Pointer[particles.Frame]
}

func (b *frameBuffer) Render(f particles.Frame) {
	b.latest.Store(&f)
}

func (b *frameBuffer) Load() *particles.Frame {
	return b.latest.Load()
}

// rgb converts a color to a terminal color, blending alpha against black.
func rgb(c particles.RGBA) tcell.Color {
	return tcell.NewRGBColor(
		int32(float64(c.R)*c.A),
		int32(float64(c.G)*c.A),
		int32(float64(c.B)*c.A),
	)
}

func (a *App) drawHome(s tcell.Screen, w, h int) {
	if frame := a.frame.Load(); frame != nil {
		drawFrame(s, w, h, frame)
	}

	title := "Smart Factory Monitoring"
	subtitle := "Press 2 for the dashboard or 3 to ask the factory bot"
	drawText(s, (w-len(title))/2, h/2-1, w, styleBold, title)
	drawText(s, (w-len(subtitle))/2, h/2+1, w, styleDim, subtitle)
}

// drawFrame plots links, then particles on top, leaving the tab and help
// rows alone.
func drawFrame(s tcell.Screen, w, h int, f *particles.Frame) {
	visible := func(x, y int) bool { return x >= 0 && x < w && y >= 1 && y < h-1 }

	for _, l := range f.Links {
		style := tcell.StyleDefault.Foreground(rgb(f.LinkColor(l)))
		x0, y0 := cell(f.Particles[l.A].Position)
		x1, y1 := cell(f.Particles[l.B].Position)
		line(x0, y0, x1, y1, func(x, y int) {
			if visible(x, y) {
				s.SetContent(x, y, '·', nil, style)
			}
		})
	}

	color, err := particles.ParseColor(f.Color)
	if err != nil {
		color = particles.DefaultLinkColor
		color.A = 1
	}
	style := tcell.StyleDefault.Foreground(rgb(color))
	for _, p := range f.Particles {
		x, y := cell(p.Position)
		if !visible(x, y) {
			continue
		}
		glyph := '•'
		if p.Radius >= 2 {
			glyph = '●'
		}
		s.SetContent(x, y, glyph, nil, style)
	}
}

// line walks the cells between two points with Bresenham's algorithm.
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

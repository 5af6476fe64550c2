// Package particles simulates the decorative particle field: points pulled
// back to their origin, pushed away by the pointer and damped every frame.
package particles

import (
	"math"
	"sync/atomic"
)

const (
	// InteractionRadius is the distance under which the pointer repels a
	// particle and two particles get a connecting link.
	InteractionRadius = 100.0

	// RepelStrength scales the pointer impulse: force = -RepelStrength/d.
	RepelStrength = 100.0

	// MinDistance clamps d in the repulsion term so a particle sitting
	// exactly under the pointer receives a finite impulse.
	MinDistance = 1.0

	// MaxLinkOpacity is the link opacity at distance zero.
	MaxLinkOpacity = 0.3
)

// Vec is a 2D vector in viewport pixels.
type Vec struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v*k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Particle is one simulated point.
type Particle struct {
	Position Vec
	Origin   Vec
	Velocity Vec
	Radius   float64
	Color    string
}

// Step advances p by one frame given the pointer position, the restoring
// divisor and the damping percentage.
func (p *Particle) Step(pointer Vec, staticity, ease float64) {
	delta := pointer.Sub(p.Position)
	if d := delta.Len(); d < InteractionRadius {
		angle := math.Atan2(delta.Y, delta.X)
		force := -RepelStrength / math.Max(d, MinDistance)
		p.Velocity.X += force * math.Cos(angle)
		p.Velocity.Y += force * math.Sin(angle)
	}

	p.Velocity = p.Velocity.Add(p.Origin.Sub(p.Position).Scale(1 / staticity))
	p.Velocity = p.Velocity.Scale(ease / 100)
	p.Position = p.Position.Add(p.Velocity)
}

// Link connects two particles closer than InteractionRadius.
type Link struct {
	A, B    int // Indices into the particle slice, A < B
	Opacity float64
}

// LinkOpacity returns the link opacity for two particles at distance d, or
// zero when they are too far apart to be linked.
func LinkOpacity(d float64) float64 {
	if d >= InteractionRadius {
		return 0
	}
	return MaxLinkOpacity * (1 - d/InteractionRadius)
}

// Links returns every unordered pair within InteractionRadius. O(n²); the
// field keeps n small.
func Links(ps []Particle) []Link {
	var links []Link
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			d := ps[i].Position.Sub(ps[j].Position).Len()
			if d < InteractionRadius {
				links = append(links, Link{A: i, B: j, Opacity: LinkOpacity(d)})
			}
		}
	}
	return links
}

// Pointer holds the last known pointer position. Writers and the frame loop
// may run on different goroutines; the last write wins.
type Pointer struct {
	pos atomic.Pointer[Vec]
}

// Set records a new pointer position.
func (p *Pointer) Set(x, y float64) {
	p.pos.Store(&Vec{X: x, Y: y})
}

// Get returns the last recorded position, or the origin if none.
func (p *Pointer) Get() Vec {
	if v := p.pos.Load(); v != nil {
		return *v
	}
	return Vec{}
}

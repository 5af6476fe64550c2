package particles

import (
	"math/rand"
	"sync"
	"time"
)

// FrameRate is the default redraw rate of the frame loop.
const FrameRate = 60

// State is the lifecycle stage of a Field.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Frame is everything a renderer needs to draw one frame.
type Frame struct {
	Width, Height float64
	Particles     []Particle
	Links         []Link
	Color         string // Particle color
}

// LinkColor returns the color of link l in this frame.
func (f Frame) LinkColor(l Link) RGBA {
	return LinkColor(f.Color, l.Opacity)
}

// Renderer draws frames. Render is called from the frame loop goroutine.
type Renderer interface {
	Render(Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

// Render implements Renderer.
func (fn RendererFunc) Render(f Frame) { fn(f) }

// FrameSource delivers display refresh signals.
type FrameSource interface {
	C() <-chan time.Time
	Stop()
}

type tickerSource struct{ t *time.Ticker }

func (s tickerSource) C() <-chan time.Time { return s.t.C }
func (s tickerSource) Stop()               { s.t.Stop() }

// NewTickerSource returns a FrameSource firing fps times per second.
func NewTickerSource(fps int) FrameSource {
	if fps <= 0 {
		fps = FrameRate
	}
	return tickerSource{t: time.NewTicker(time.Second / time.Duration(fps))}
}

// Field owns a set of particles and the loop that advances and draws them.
type Field struct {
	cfg       Config
	renderer  Renderer
	pointer   *Pointer
	newSource func() FrameSource

	mu        sync.Mutex
	rng       *rand.Rand
	state     State
	width     float64
	height    float64
	particles []Particle
	stop      chan struct{}
	done      chan struct{}
}

// Option configures a Field.
type Option func(*Field)

// WithPointer shares an existing pointer state with the field.
func WithPointer(p *Pointer) Option {
	return func(f *Field) { f.pointer = p }
}

// WithFrameSource replaces the default 60 Hz ticker.
func WithFrameSource(newSource func() FrameSource) Option {
	return func(f *Field) { f.newSource = newSource }
}

// WithRand seeds particle placement from rng.
func WithRand(rng *rand.Rand) Option {
	return func(f *Field) { f.rng = rng }
}

// WithViewport sets the initial viewport size.
func WithViewport(width, height float64) Option {
	return func(f *Field) {
		f.width = width
		f.height = height
	}
}

// NewField creates a field in the uninitialized state. Zero config values
// take defaults.
func NewField(cfg Config, renderer Renderer, opts ...Option) *Field {
	f := &Field{
		cfg:       cfg.WithDefaults(),
		renderer:  renderer,
		newSource: func() FrameSource { return NewTickerSource(FrameRate) },
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.pointer == nil {
		f.pointer = &Pointer{}
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return f
}

// Config returns the effective configuration.
func (f *Field) Config() Config { return f.cfg }

// Pointer returns the pointer state read by the frame loop.
func (f *Field) Pointer() *Pointer { return f.pointer }

// State returns the current lifecycle stage.
func (f *Field) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Particles returns a snapshot of the particles.
func (f *Field) Particles() []Particle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Particle(nil), f.particles...)
}

// seed places Quantity particles uniformly over the viewport. Caller holds mu.
func (f *Field) seed() {
	color := f.cfg.ParticleColor()
	f.particles = make([]Particle, f.cfg.Quantity)
	for i := range f.particles {
		pos := Vec{X: f.rng.Float64() * f.width, Y: f.rng.Float64() * f.height}
		f.particles[i] = Particle{
			Position: pos,
			Origin:   pos,
			Radius:   f.rng.Float64()*f.cfg.ParticleSize + 1,
			Color:    color,
		}
	}
}

// Start seeds the particles and begins the frame loop. Starting a running
// field does nothing.
func (f *Field) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateRunning {
		return
	}

	f.seed()
	f.state = StateRunning
	f.stop = make(chan struct{})
	f.done = make(chan struct{})

	go f.loop(f.newSource(), f.stop, f.done)
}

// Stop ends the frame loop and waits for it to exit. No render happens after
// Stop returns.
func (f *Field) Stop() {
	f.mu.Lock()
	if f.state != StateRunning {
		f.mu.Unlock()
		return
	}
	f.state = StateStopped
	stop, done := f.stop, f.done
	f.mu.Unlock()

	close(stop)
	<-done
}

// OnResize updates the viewport and re-seeds every particle.
func (f *Field) OnResize(width, height float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.width = width
	f.height = height
	if f.state == StateRunning {
		f.seed()
	}
}

// Advance steps every particle once and returns the resulting frame.
func (f *Field) Advance() Frame {
	pointer := f.pointer.Get()

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.particles {
		f.particles[i].Step(pointer, f.cfg.Staticity, f.cfg.Ease)
	}

	snapshot := append([]Particle(nil), f.particles...)
	return Frame{
		Width:     f.width,
		Height:    f.height,
		Particles: snapshot,
		Links:     Links(snapshot),
		Color:     f.cfg.ParticleColor(),
	}
}

func (f *Field) loop(src FrameSource, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer src.Stop()

	for {
		select {
		case <-stop:
			return
		case <-src.C():
			frame := f.Advance()
			select {
			case <-stop:
				return
			default:
			}
			if f.renderer != nil {
				f.renderer.Render(frame)
			}
		}
	}
}

package particles

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type manualSource struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (m *manualSource) C() <-chan time.Time { return m.ch }

func (m *manualSource) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *manualSource) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

type frameRecorder struct {
	frames chan Frame
}

func (r *frameRecorder) Render(f Frame) { r.frames <- f }

func newTestField(t *testing.T, cfg Config) (*Field, *manualSource, *frameRecorder) {
	t.Helper()
	src := &manualSource{ch: make(chan time.Time)}
	rec := &frameRecorder{frames: make(chan Frame, 16)}
	f := NewField(cfg, rec,
		WithFrameSource(func() FrameSource { return src }),
		WithRand(rand.New(rand.NewSource(1))),
		WithViewport(800, 600),
	)
	return f, src, rec
}

func TestField_Lifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	f, src, rec := newTestField(t, Config{Quantity: 20})
	assert.Equal(t, StateUninitialized, f.State())
	assert.Empty(t, f.Particles())

	f.Start()
	assert.Equal(t, StateRunning, f.State())

	particles := f.Particles()
	require.Len(t, particles, 20)
	for _, p := range particles {
		assert.Equal(t, p.Position, p.Origin)
		assert.GreaterOrEqual(t, p.Position.X, 0.0)
		assert.Less(t, p.Position.X, 800.0)
		assert.GreaterOrEqual(t, p.Position.Y, 0.0)
		assert.Less(t, p.Position.Y, 600.0)
		assert.GreaterOrEqual(t, p.Radius, 1.0)
		assert.Less(t, p.Radius, 3.0)
	}

	src.ch <- time.Now()
	frame := <-rec.frames
	assert.Len(t, frame.Particles, 20)
	assert.Equal(t, 800.0, frame.Width)
	assert.Equal(t, "rgba(255, 255, 255, 0.3)", frame.Color)

	f.Stop()
	assert.Equal(t, StateStopped, f.State())
	assert.True(t, src.isStopped())

	// A stopped loop no longer receives frames
	select {
	case src.ch <- time.Now():
		t.Fatal("frame delivered after Stop")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Empty(t, rec.frames)

	f.Stop()
}

func TestField_StartTwiceIsNoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	f, _, _ := newTestField(t, Config{Quantity: 5})
	f.Start()
	before := f.Particles()
	f.Start()
	assert.Equal(t, before, f.Particles())
	f.Stop()
}

func TestField_RestartAfterStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	f, src, rec := newTestField(t, Config{Quantity: 5})
	f.Start()
	f.Stop()
	f.Start()
	assert.Equal(t, StateRunning, f.State())

	src.ch <- time.Now()
	<-rec.frames
	f.Stop()
}

func TestField_OnResizeReseeds(t *testing.T) {
	defer goleak.VerifyNone(t)

	f, _, _ := newTestField(t, Config{Quantity: 30})
	f.Start()
	defer f.Stop()

	f.OnResize(100, 50)

	for _, p := range f.Particles() {
		assert.Less(t, p.Position.X, 100.0)
		assert.Less(t, p.Position.Y, 50.0)
		assert.Equal(t, Vec{}, p.Velocity)
	}
}

func TestField_AdvanceUsesPointer(t *testing.T) {
	pointer := &Pointer{}
	f := NewField(Config{Quantity: 1, Staticity: 1e12, Ease: 100}, nil,
		WithPointer(pointer),
		WithRand(rand.New(rand.NewSource(3))),
		WithViewport(10, 10),
	)
	assert.Same(t, pointer, f.Pointer())

	f.mu.Lock()
	f.seed()
	f.mu.Unlock()

	start := f.Particles()[0].Position
	pointer.Set(start.X+10, start.Y)

	frame := f.Advance()

	require.Len(t, frame.Particles, 1)
	assert.Less(t, frame.Particles[0].Position.X, start.X, "particle pushed away from pointer")
}

func TestField_FrameLinksUseParticleColor(t *testing.T) {
	pointer := &Pointer{}
	pointer.Set(1000, 1000)
	f := NewField(Config{Quantity: 2, Color: "rgba(10, 20, 30, 1)"}, nil, WithViewport(1, 1), WithPointer(pointer))
	f.mu.Lock()
	f.seed()
	f.mu.Unlock()

	frame := f.Advance()

	require.Len(t, frame.Links, 1)
	c := frame.LinkColor(frame.Links[0])
	assert.Equal(t, uint8(10), c.R)
	assert.Greater(t, c.A, 0.0)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopped", StateStopped.String())
}

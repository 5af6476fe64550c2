package animate

import (
	"sync"
	"time"
)

// Ticker is the subset of *time.Ticker used by the animator.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// CancelFunc stops an animation. After it returns, onTick is not called again.
// It is safe to call more than once but must not be called from inside onTick.
type CancelFunc func()

// Animator runs ramps on their own tickers.
type Animator struct {
	Interval  time.Duration
	NewTicker TickerFunc
}

// Default is the animator used by Animate.
var Default = Animator{Interval: StepInterval, NewTicker: NewTimeTicker}

// Animate ramps from zero to target over duration using Default.
func Animate(target float64, duration time.Duration, onTick func(value float64)) CancelFunc {
	return Default.Animate(target, duration, onTick)
}

// Animate ramps from zero to target over duration, calling onTick with every
// intermediate value and finally with target exactly once. A zero target
// calls onTick(0) synchronously and starts no timer.
func (a Animator) Animate(target float64, duration time.Duration, onTick func(value float64)) CancelFunc {
	interval := a.Interval
	if interval <= 0 {
		interval = StepInterval
	}
	newTicker := a.NewTicker
	if newTicker == nil {
		newTicker = NewTimeTicker
	}

	ramp := NewRamp(target, duration, interval)
	if ramp.Done() {
		onTick(target)
		return func() {}
	}

	var (
		mu        sync.Mutex
		cancelled bool
		once      sync.Once
		stop      = make(chan struct{})
		done      = make(chan struct{})
	)

	ticker := newTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C():
				mu.Lock()
				if cancelled {
					mu.Unlock()
					return
				}
				value, finished := ramp.Step()
				onTick(value)
				mu.Unlock()
				if finished {
					return
				}
			}
		}
	}()

	return func() {
		mu.Lock()
		cancelled = true
		mu.Unlock()
		once.Do(func() { close(stop) })
		<-done
	}
}

// Group tracks the cancel functions of concurrently running animations so a
// view can tear them all down at once.
type Group struct {
	mu      sync.Mutex
	cancels map[string]CancelFunc
}

// Start animates key toward target with a, cancelling any animation already
// running under the same key.
func (g *Group) Start(a Animator, key string, target float64, duration time.Duration, onTick func(float64)) {
	g.mu.Lock()
	previous := g.cancels[key]
	delete(g.cancels, key)
	g.mu.Unlock()

	if previous != nil {
		previous()
	}

	cancel := a.Animate(target, duration, onTick)

	g.mu.Lock()
	if g.cancels == nil {
		g.cancels = make(map[string]CancelFunc)
	}
	g.cancels[key] = cancel
	g.mu.Unlock()
}

// CancelAll stops every tracked animation.
func (g *Group) CancelAll() {
	g.mu.Lock()
	cancels := g.cancels
	g.cancels = nil
	g.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

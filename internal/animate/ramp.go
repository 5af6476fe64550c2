// Package animate drives numeric display values toward a target over a fixed
// duration, one constant increment per tick.
package animate

import "time"

// StepInterval is the reference tick cadence, roughly 60 ticks per second.
const StepInterval = 16 * time.Millisecond

// Ramp is the pure stepping state of one animated value.
// Current reaches Target after at most StepCount steps and stays there.
type Ramp struct {
	Target       float64
	Current      float64
	Increment    float64
	StepCount    int
	ElapsedSteps int
}

// NewRamp prepares a ramp from zero to target, split into duration/interval
// steps (at least one).
func NewRamp(target float64, duration, interval time.Duration) *Ramp {
	if interval <= 0 {
		interval = StepInterval
	}
	steps := int(duration / interval)
	if steps < 1 {
		steps = 1
	}
	return &Ramp{
		Target:    target,
		StepCount: steps,
		Increment: target / float64(steps),
	}
}

// Done reports whether the ramp has settled on its target.
func (r *Ramp) Done() bool {
	return r.Target == 0 || r.ElapsedSteps >= r.StepCount || r.reached()
}

func (r *Ramp) reached() bool {
	if r.Increment >= 0 {
		return r.Current >= r.Target
	}
	return r.Current <= r.Target
}

// Step advances one tick and returns the value to display. done is true on
// the step that lands on Target; that step always returns Target exactly.
func (r *Ramp) Step() (value float64, done bool) {
	if r.Done() {
		r.Current = r.Target
		return r.Target, true
	}

	r.ElapsedSteps++
	r.Current += r.Increment
	if r.reached() || r.ElapsedSteps >= r.StepCount {
		r.Current = r.Target
		return r.Target, true
	}
	return r.Current, false
}

package core

import "time"

// FixedStep paces repeated work (like animated smoothing passes in the
// viewer) at a steady rate regardless of frame timing.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a controller targeting the given steps per second.
func NewFixedStep(sps int) *FixedStep {
	if sps <= 0 {
		sps = 10
	}
	fs := &FixedStep{step: time.Second / time.Duration(sps)}
	fs.accumulator = fs.step
	return fs
}

// Reset clears accumulated time, so the next ShouldStep fires immediately.
func (f *FixedStep) Reset() {
	f.accumulator = f.step
	f.last = time.Time{}
}

// ShouldStep reports whether one unit of work should run now.
func (f *FixedStep) ShouldStep() bool {
	now := time.Now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}

package effect

import (
	"time"

	"github.com/fogleman/ease"
)

// FPS returns the frame interval for a given number of frames per second.
//
// Example:
//
//	loop := engine.New(clock.RealClock{}, 60, update) // ticks every FPS(60)
func FPS(n int) time.Duration {
	return time.Second / time.Duration(n)
}

// Effect is a single time-boxed animation shaped by an easing function. Starting it again
// while it runs restarts it from the beginning; there is only ever one run in flight.
type Effect struct {
	// The easing function to use
	EasingFunc ease.Function

	// Duration is how long one run of the effect lasts.
	Duration time.Duration

	startedAt time.Time
	active    bool
}

// NewEffect creates and returns a pointer to a new, idle Effect.
func NewEffect(easingFunc ease.Function, duration time.Duration) *Effect {
	if easingFunc == nil {
		easingFunc = ease.Linear
	}
	return &Effect{
		EasingFunc: easingFunc,
		Duration:   duration,
	}
}

// Start begins a new run at the given instant, superseding any run in flight.
func (e *Effect) Start(at time.Time) {
	e.startedAt = at
	e.active = true
}

// Stop halts the run in flight.
func (e *Effect) Stop() {
	e.active = false
}

// StartedAt returns when the current or last run began.
func (e *Effect) StartedAt() time.Time {
	return e.startedAt
}

// Update returns the linear progress t in [0, 1], the eased value for t and whether the
// run is still in flight at now. A run finishes once its duration has elapsed.
func (e *Effect) Update(now time.Time) (float64, float64, bool) {
	if !e.active {
		return 1, e.EasingFunc(1), false
	}
	if e.Duration <= 0 {
		e.active = false
		return 1, e.EasingFunc(1), false
	}

	t := clamp(float64(now.Sub(e.startedAt))/float64(e.Duration), 0, 1)
	if t >= 1 {
		e.active = false
		return 1, e.EasingFunc(1), false
	}
	return t, e.EasingFunc(t), true
}

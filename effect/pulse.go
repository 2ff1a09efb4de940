package effect

import (
	"sync"
	"time"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"
	"k8s.io/utils/clock"
)

var (
	White = colorful.Color{R: 1, G: 1, B: 1}
	Cyan  = colorful.Color{R: 0, G: 1, B: 1}
)

// PulseSettings describes how a beat pulse looks.
type PulseSettings struct {
	NormalScale float64
	PulseScale  float64
	Duration    time.Duration
	Easing      ease.Function

	// ChangeColor blends from BeatColor back to NormalColor over the pulse.
	ChangeColor bool
	NormalColor colorful.Color
	BeatColor   colorful.Color
}

// DefaultPulseSettings returns a 200ms pulse from 1.5x back to 1x, flashing cyan.
func DefaultPulseSettings() PulseSettings {
	return PulseSettings{
		NormalScale: 1.0,
		PulseScale:  1.5,
		Duration:    200 * time.Millisecond,
		Easing:      ease.InOutQuad,
		ChangeColor: true,
		NormalColor: White,
		BeatColor:   Cyan,
	}
}

// Frame is the pulse's appearance at one instant.
type Frame struct {
	Scale    float64
	Color    colorful.Color
	Progress float64
	Active   bool

	// Beat is the beat that started the pulse.
	Beat int64
}

// Pulse is the beat visualiser: each beat starts a short pulse, and a new beat replaces
// the pulse in flight instead of stacking another one on top.
type Pulse struct {
	mu sync.Mutex

	settings   PulseSettings
	timeSource clock.PassiveClock
	effect     *Effect
	beat       int64
}

// NewPulse creates an idle pulse. OnBeat stamps pulses with timeSource's current time.
func NewPulse(timeSource clock.PassiveClock, settings PulseSettings) *Pulse {
	return &Pulse{
		settings:   settings,
		timeSource: timeSource,
		effect:     NewEffect(settings.Easing, settings.Duration),
	}
}

// OnBeat restarts the pulse. It only records the start time, so it is cheap enough to run
// inside the clock's tick.
func (p *Pulse) OnBeat(beat int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.beat = beat
	p.effect.Start(p.timeSource.Now())
}

// Start begins a pulse at the given instant, stopping any pulse in flight.
func (p *Pulse) Start(at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.effect.Start(at)
}

func (p *Pulse) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.effect.Stop()
}

// Frame evaluates the pulse at now. Once the pulse is over the frame is exactly the
// normal scale and colour.
func (p *Pulse) Frame(now time.Time) Frame {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, eased, active := p.effect.Update(now)
	frame := Frame{
		Scale:    p.settings.NormalScale,
		Color:    p.settings.NormalColor,
		Progress: t,
		Active:   active,
		Beat:     p.beat,
	}
	if !active {
		return frame
	}

	frame.Scale = lerp(p.settings.PulseScale, p.settings.NormalScale, eased)
	if p.settings.ChangeColor {
		frame.Color = p.settings.BeatColor.BlendLab(p.settings.NormalColor, clamp(eased, 0, 1))
	}
	return frame
}

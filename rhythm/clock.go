package rhythm

import (
	"fmt"
	"math"
	"reflect"
	"sync"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/tempo/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
	"k8s.io/utils/clock"
)

// DefaultBeatsPerBar is the bar length used for markers when none is configured.
const DefaultBeatsPerBar = 4

// Listener is notified each time the clock crosses one or more beat boundaries.
type Listener interface {
	OnBeat(beat int64)
}

// Recorder receives clock events for reporting, typically metrics.
type Recorder interface {
	BeatCrossed(beat int64, skipped int64, position float64)
	TimeRegressed(by time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) BeatCrossed(int64, int64, float64) {}
func (noopRecorder) TimeRegressed(time.Duration)       {}

// InvalidTempoError is returned when a clock is created with a non-positive or non-finite tempo.
type InvalidTempoError struct {
	BPM float64
}

func (e InvalidTempoError) Error() string {
	return fmt.Sprintf("tempo must be a positive number of beats per minute, got %v", e.BPM)
}

// ErrListenerNotComparable is returned when subscribing a listener that cannot be de-duplicated.
var ErrListenerNotComparable = fmt.Errorf("beat listener must be a comparable type, such as a pointer")

// Clock tracks song position against a monotonic time source and fires a notification
// whenever playback crosses a beat boundary.
//
// The clock is advanced by a single driver, once per tick. Queries may come from any
// goroutine and always observe one consistent Snapshot.
type Clock struct {
	mu sync.RWMutex

	timeSource     clock.PassiveClock
	origin         time.Time
	tempo          float64
	secondsPerBeat float64
	beatsPerBar    int

	lastNow      time.Time
	songPosition float64
	beatCount    int64
	lastBeat     float64

	listeners []Listener

	logger   *logrus.Entry
	recorder Recorder
}

// Option configures a Clock.
type Option func(*Clock)

// WithTimeSource sets the time source used for the origin and by Tick.
func WithTimeSource(src clock.PassiveClock) Option {
	return func(c *Clock) {
		c.timeSource = src
	}
}

// WithOrigin fixes the start-of-song timestamp instead of reading it from the time source.
func WithOrigin(origin time.Time) Option {
	return func(c *Clock) {
		c.origin = origin
	}
}

// WithBeatsPerBar sets the bar length used by Snapshot markers.
func WithBeatsPerBar(beats int) Option {
	return func(c *Clock) {
		if beats > 0 {
			c.beatsPerBar = beats
		}
	}
}

func WithLogger(entry *logrus.Entry) Option {
	return func(c *Clock) {
		c.logger = entry
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *Clock) {
		c.recorder = r
	}
}

// NewClock creates a clock running at bpm. The song origin is captured when the clock is created.
func NewClock(bpm float64, opts ...Option) (*Clock, error) {
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return nil, errors.WithStackTrace(InvalidTempoError{BPM: bpm})
	}

	c := &Clock{
		timeSource:     clock.RealClock{},
		tempo:          bpm,
		secondsPerBeat: beatsToSeconds(1, bpm),
		beatsPerBar:    DefaultBeatsPerBar,
		recorder:       noopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.GetProjectLogger()
	}
	if c.origin.IsZero() {
		c.origin = c.timeSource.Now()
	}
	c.lastNow = c.origin

	c.logger.WithFields(logrus.Fields{"bpm": bpm, "seconds_per_beat": c.secondsPerBeat}).Debug("Clock started")
	return c, nil
}

// Tick advances the clock to the time source's current time.
func (c *Clock) Tick() bool {
	return c.Advance(c.timeSource.Now())
}

// Advance recomputes the song position at now and, if one or more beat boundaries were
// crossed since the last advance, jumps the beat count to the latest boundary and notifies
// every listener once, in subscription order, before returning. It reports whether a
// crossing happened.
//
// A now earlier than the previous one is reported and ignored; the beat count never
// decreases.
func (c *Clock) Advance(now time.Time) bool {
	c.mu.Lock()

	if now.Before(c.lastNow) {
		by := c.lastNow.Sub(now)
		c.mu.Unlock()

		c.logger.WithFields(logrus.Fields{
			"regressed_by": by,
			"beat":         c.BeatCount(),
		}).Warn("Time source went backwards, holding beat count")
		c.recorder.TimeRegressed(by)
		return false
	}

	c.lastNow = now
	c.songPosition = now.Sub(c.origin).Seconds()

	current := markerNumber(c.songPosition, c.secondsPerBeat)
	if current <= c.beatCount {
		c.mu.Unlock()
		return false
	}

	skipped := current - c.beatCount - 1
	c.beatCount = current
	c.lastBeat = c.songPosition
	position := c.songPosition
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	c.logger.WithField("skipped", skipped).Debugf("Beat %d at %.3fs", current, position)
	c.recorder.BeatCrossed(current, skipped, position)

	for _, l := range listeners {
		l.OnBeat(current)
	}
	return true
}

// Subscribe registers l for beat notifications. Subscribing a listener that is already
// registered returns its existing subscription, so it is never notified twice per beat.
func (c *Clock) Subscribe(l Listener) (*Subscription, error) {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return nil, errors.WithStackTrace(ErrListenerNotComparable)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !slices.Contains(c.listeners, l) {
		c.listeners = append(c.listeners, l)
	}
	return &Subscription{clock: c, listener: l}, nil
}

// Unsubscribe removes l. It reports whether l was registered.
func (c *Clock) Unsubscribe(l Listener) bool {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.Index(c.listeners, l)
	if i < 0 {
		return false
	}
	c.listeners = slices.Delete(c.listeners, i, i+1)
	return true
}

// Snapshot returns a consistent copy of the clock's readings.
func (c *Clock) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		Instant:        c.lastNow,
		Position:       c.songPosition,
		BeatCount:      c.beatCount,
		LastBeat:       c.lastBeat,
		SecondsPerBeat: c.secondsPerBeat,
		BeatsPerBar:    c.beatsPerBar,
	}
}

// TimeToNextBeat returns the seconds from the current song position to the next beat boundary.
func (c *Clock) TimeToNextBeat() float64 {
	return c.Snapshot().TimeToNextBeat()
}

// TimeSinceLastBeat returns the seconds since the beat count last changed.
func (c *Clock) TimeSinceLastBeat() float64 {
	return c.Snapshot().TimeSinceLastBeat()
}

// DistanceToNearestBeat returns the signed distance to the closest beat: negative when the
// closest beat has already passed, positive when it is upcoming.
func (c *Clock) DistanceToNearestBeat() float64 {
	return c.Snapshot().DistanceToNearestBeat()
}

func (c *Clock) BPM() float64 {
	return c.tempo
}

func (c *Clock) SecondsPerBeat() float64 {
	return c.secondsPerBeat
}

func (c *Clock) BeatsPerBar() int {
	return c.beatsPerBar
}

func (c *Clock) Origin() time.Time {
	return c.origin
}

func (c *Clock) SongPosition() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.songPosition
}

func (c *Clock) BeatCount() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.beatCount
}

func (c *Clock) LastBeat() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastBeat
}

// Subscription is the registration of one listener. Close it when the owner goes away.
type Subscription struct {
	clock    *Clock
	listener Listener
	once     sync.Once
}

// Close removes the listener from the clock. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.clock.Unsubscribe(s.listener)
	})
}

// beatsToSeconds calculates the seconds taken by beats at tempo.
func beatsToSeconds(beats int, tempo float64) float64 {
	return (60.0 / tempo) * float64(beats)
}

// markerNumber returns the number of whole intervals elapsed at position.
func markerNumber(position, interval float64) int64 {
	return int64(math.Floor(position / interval))
}

// markerPhase returns how far position is through its current interval, in [0, 1).
func markerPhase(position, interval float64) float64 {
	ratio := position / interval
	return ratio - math.Floor(ratio)
}

package rhythm

import (
	"fmt"
	"time"
)

// Snapshot is an immutable reading of a Clock, taken under its lock so that position,
// beat count and last beat always agree with each other.
type Snapshot struct {
	// Instant is the timestamp the clock was last advanced to.
	Instant time.Time

	// Position is the song position in seconds.
	Position float64

	// BeatCount is the number of beat boundaries crossed.
	BeatCount int64

	// LastBeat is the song position at which BeatCount last changed.
	LastBeat float64

	SecondsPerBeat float64
	BeatsPerBar    int
}

// TimeToNextBeat gets the seconds until the beat after BeatCount.
func (s Snapshot) TimeToNextBeat() float64 {
	return float64(s.BeatCount+1)*s.SecondsPerBeat - s.Position
}

// TimeSinceLastBeat gets the seconds since BeatCount last changed.
func (s Snapshot) TimeSinceLastBeat() float64 {
	return s.Position - s.LastBeat
}

// TimeSinceBeatBoundary gets the seconds since the boundary of beat BeatCount. Unlike
// TimeSinceLastBeat it does not depend on when the crossing tick happened.
func (s Snapshot) TimeSinceBeatBoundary() float64 {
	return s.Position - float64(s.BeatCount)*s.SecondsPerBeat
}

// DistanceToNearestBeat determines how far in time the snapshot is from its closest beat.
// Negative means the beat has passed, positive means it is upcoming. Ties go to the
// upcoming beat, and so does the very start of the song.
func (s Snapshot) DistanceToNearestBeat() float64 {
	if s.Position == 0 && s.BeatCount == 0 {
		return s.SecondsPerBeat
	}

	since := s.TimeSinceBeatBoundary()
	next := s.TimeToNextBeat()
	if since < next {
		return -since
	}
	return next
}

// BeatPhase gets how far through the current beat the snapshot is, in [0, 1).
func (s Snapshot) BeatPhase() float64 {
	return markerPhase(s.Position, s.SecondsPerBeat)
}

// Bar gets the 1-based bar containing the current beat.
func (s Snapshot) Bar() int64 {
	if s.BeatsPerBar <= 0 {
		return 1
	}
	return s.BeatCount/int64(s.BeatsPerBar) + 1
}

// BeatWithinBar returns the 1-based beat number relative to the start of the bar.
func (s Snapshot) BeatWithinBar() int {
	if s.BeatsPerBar <= 0 {
		return 1
	}
	return int(s.BeatCount%int64(s.BeatsPerBar)) + 1
}

// IsDownBeat checks whether the current beat was the first beat in its bar.
func (s Snapshot) IsDownBeat() bool {
	return s.BeatWithinBar() == 1
}

// Marker returns the position as "bar.beat".
func (s Snapshot) Marker() string {
	return fmt.Sprintf("%d.%d", s.Bar(), s.BeatWithinBar())
}

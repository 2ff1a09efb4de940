package config

import (
	"fmt"
	"math"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/tempo/effect"
	"github.com/robmorgan/tempo/player"
	"github.com/robmorgan/tempo/timing"
	"github.com/sirupsen/logrus"
)

// InvalidValueError is returned when a setting is out of range.
type InvalidValueError struct {
	Name   string
	Value  interface{}
	Reason string
}

func (e InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Name, e.Value, e.Reason)
}

// TempoConfig represents options that configure the global behavior of the program
type TempoConfig struct {
	BPM         float64
	BeatsPerBar int

	// Tolerance is the half-width of the on-beat window, in seconds.
	Tolerance float64

	// TickRate is the number of game loop ticks per second.
	TickRate int

	Pulse  effect.PulseSettings
	Player player.Settings

	// OSC beat output. Disabled when OSCHost is empty.
	OSCHost string
	OSCPort int

	// DBPath is where finished sessions are stored. Disabled when empty.
	DBPath string

	// MetricsAddr is the listen address for the Prometheus endpoint. Disabled when empty.
	MetricsAddr string

	LogLevel string
}

// NewTempoConfig creates a TempoConfig with reasonable defaults for real usage
func NewTempoConfig() TempoConfig {
	return TempoConfig{
		BPM:         120,
		BeatsPerBar: 4,
		Tolerance:   timing.DefaultTolerance,
		TickRate:    60,
		Pulse:       effect.DefaultPulseSettings(),
		Player:      player.DefaultSettings(),
		OSCPort:     9000,
		LogLevel:    logrus.InfoLevel.String(),
	}
}

// Validate rejects out of range settings. Nothing is clamped.
func (c TempoConfig) Validate() error {
	switch {
	case !positive(c.BPM):
		return invalid("bpm", c.BPM, "must be a positive number")
	case c.BeatsPerBar <= 0:
		return invalid("beats per bar", c.BeatsPerBar, "must be positive")
	case !positive(c.Tolerance):
		return invalid("tolerance", c.Tolerance, "must be a positive number of seconds")
	case c.TickRate <= 0:
		return invalid("tick rate", c.TickRate, "must be positive")
	case c.Pulse.Duration <= 0:
		return invalid("pulse duration", c.Pulse.Duration, "must be positive")
	case c.Player.MoveDuration <= 0:
		return invalid("move duration", c.Player.MoveDuration, "must be positive")
	case c.Player.StumbleDuration < 0:
		return invalid("stumble duration", c.Player.StumbleDuration, "must not be negative")
	case c.OSCPort <= 0 || c.OSCPort > math.MaxUint16:
		return invalid("osc port", c.OSCPort, "must be between 1 and 65535")
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return invalid("log level", c.LogLevel, err.Error())
	}
	return nil
}

// SecondsPerBeat returns the beat length for the configured tempo.
func (c TempoConfig) SecondsPerBeat() time.Duration {
	return time.Duration(60 / c.BPM * float64(time.Second))
}

func parseColor(hex string) (colorful.Color, error) {
	color, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, invalid("beat color", hex, err.Error())
	}
	return color, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func invalid(name string, value interface{}, reason string) error {
	return errors.WithStackTrace(InvalidValueError{Name: name, Value: value, Reason: reason})
}

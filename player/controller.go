package player

import (
	"time"

	"github.com/fogleman/ease"
	"github.com/robmorgan/tempo/effect"
	"github.com/robmorgan/tempo/input"
	"github.com/robmorgan/tempo/logger"
	"github.com/robmorgan/tempo/timing"
	"github.com/sirupsen/logrus"
)

// deadzone is the smallest input magnitude treated as a move request.
const deadzone = 0.1

// State is what the player is currently doing.
type State int

const (
	Ready State = iota
	Moving
	Stumbling
)

func (s State) String() string {
	switch s {
	case Moving:
		return "MOVING"
	case Stumbling:
		return "STUMBLING"
	default:
		return "READY"
	}
}

// Position is a point on the ground plane.
type Position struct {
	X, Y float64
}

// Settings tune how the player responds to input.
type Settings struct {
	MoveDistance    float64
	MoveDuration    time.Duration
	StumbleDuration time.Duration
	Tolerance       float64
	Easing          ease.Function
}

// DefaultSettings returns the stock movement settings.
func DefaultSettings() Settings {
	return Settings{
		MoveDistance:    2.0,
		MoveDuration:    200 * time.Millisecond,
		StumbleDuration: 500 * time.Millisecond,
		Tolerance:       timing.DefaultTolerance,
		Easing:          ease.InOutQuad,
	}
}

// Outcome describes what happened to one input.
type Outcome struct {
	// Ignored is set when the player was busy or the input was too small to count.
	Ignored bool
	// Accepted is set when the input was on beat and a move started.
	Accepted  bool
	Judgement timing.Judgement
}

// Controller only lets the player move on the beat. Off-beat input costs a stumble,
// during which further input is ignored.
type Controller struct {
	settings  Settings
	validator *timing.Validator
	logger    *logrus.Entry

	state    State
	position Position
	from     Position
	target   Position
	move     *effect.Effect
	stumble  time.Time
}

// NewController creates a Ready controller at start.
func NewController(validator *timing.Validator, settings Settings, start Position) *Controller {
	return &Controller{
		settings:  settings,
		validator: validator,
		logger:    logger.GetProjectLogger().WithField("component", "player"),
		position:  start,
		target:    start,
		move:      effect.NewEffect(settings.Easing, settings.MoveDuration),
	}
}

// HandleInput judges a directional input made at now.
func (c *Controller) HandleInput(now time.Time, dir input.Direction) Outcome {
	if c.state != Ready || dir.Magnitude() <= deadzone {
		return Outcome{Ignored: true}
	}
	dir = dir.Normalize()

	j, err := c.validator.Judge(c.settings.Tolerance)
	if err != nil {
		c.logger.Warnf("Unable to judge input: %v", err)
		c.startStumble(now)
		return Outcome{Judgement: j}
	}
	if !j.OnBeat {
		c.logger.WithField("distance", j.Distance).Info("Off-beat input, stumbling")
		c.startStumble(now)
		return Outcome{Judgement: j}
	}

	c.logger.Infof("Move accepted, timing %s", j.Grade)
	c.state = Moving
	c.from = c.position
	c.target = Position{
		X: c.position.X + dir.X*c.settings.MoveDistance,
		Y: c.position.Y + dir.Y*c.settings.MoveDistance,
	}
	c.move.Start(now)
	return Outcome{Accepted: true, Judgement: j}
}

func (c *Controller) startStumble(now time.Time) {
	c.state = Stumbling
	c.stumble = now
}

// Update advances any move or stumble in progress to now.
func (c *Controller) Update(now time.Time) {
	switch c.state {
	case Moving:
		_, eased, active := c.move.Update(now)
		if !active {
			c.position = c.target
			c.state = Ready
			return
		}
		c.position = Position{
			X: c.from.X + (c.target.X-c.from.X)*eased,
			Y: c.from.Y + (c.target.Y-c.from.Y)*eased,
		}
	case Stumbling:
		if now.Sub(c.stumble) >= c.settings.StumbleDuration {
			c.state = Ready
		}
	}
}

// State returns what the player is currently doing.
func (c *Controller) State() State {
	return c.state
}

// Position returns where the player currently is.
func (c *Controller) Position() Position {
	return c.position
}

// Target returns where the current move ends, or the current position when idle.
func (c *Controller) Target() Position {
	if c.state == Moving {
		return c.target
	}
	return c.position
}

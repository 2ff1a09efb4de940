package input

import (
	"context"
	"math"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/tempo/logger"
	"k8s.io/utils/clock"
)

// Direction is a movement request on the ground plane.
type Direction struct {
	X, Y float64
}

var (
	Up    = Direction{X: 0, Y: 1}
	Down  = Direction{X: 0, Y: -1}
	Left  = Direction{X: -1, Y: 0}
	Right = Direction{X: 1, Y: 0}
)

// Magnitude returns the length of d.
func (d Direction) Magnitude() float64 {
	return math.Hypot(d.X, d.Y)
}

// Normalize returns d scaled to unit length, or d unchanged if it has no length.
func (d Direction) Normalize() Direction {
	m := d.Magnitude()
	if m == 0 {
		return d
	}
	return Direction{X: d.X / m, Y: d.Y / m}
}

// Event is a key press, stamped with the time it was read.
type Event struct {
	Direction Direction
	Quit      bool
	At        time.Time
}

// Translate maps a key press to an event. WASD and the arrow keys move; Esc, Ctrl+C and q
// quit. It reports false for keys it does not handle.
func Translate(r rune, key keyboard.Key) (Event, bool) {
	switch key {
	case keyboard.KeyArrowUp:
		return Event{Direction: Up}, true
	case keyboard.KeyArrowDown:
		return Event{Direction: Down}, true
	case keyboard.KeyArrowLeft:
		return Event{Direction: Left}, true
	case keyboard.KeyArrowRight:
		return Event{Direction: Right}, true
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return Event{Quit: true}, true
	}

	switch r {
	case 'w', 'W':
		return Event{Direction: Up}, true
	case 's', 'S':
		return Event{Direction: Down}, true
	case 'a', 'A':
		return Event{Direction: Left}, true
	case 'd', 'D':
		return Event{Direction: Right}, true
	case 'q', 'Q':
		return Event{Quit: true}, true
	}
	return Event{}, false
}

// Listen opens the keyboard and forwards translated key presses to events until ctx is
// cancelled or the keyboard fails. Each event is stamped with timeSource's time when it
// was read.
func Listen(ctx context.Context, timeSource clock.PassiveClock, events chan<- Event) error {
	keys, err := keyboard.GetKeys(128)
	if err != nil {
		return errors.WithStackTrace(err)
	}
	defer func() {
		if err := keyboard.Close(); err != nil {
			logger.GetProjectLogger().Errorf("unable to close keyboard: %v", err)
		}
	}()

	return forward(ctx, timeSource, keys, events)
}

func forward(ctx context.Context, timeSource clock.PassiveClock, keys <-chan keyboard.KeyEvent, events chan<- Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case key, ok := <-keys:
			if !ok {
				return nil
			}
			if key.Err != nil {
				return errors.WithStackTrace(key.Err)
			}
			ev, handled := Translate(key.Rune, key.Key)
			if !handled {
				continue
			}
			ev.At = timeSource.Now()

			select {
			case events <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

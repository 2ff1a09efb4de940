package input

import (
	"context"
	"testing"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func TestTranslate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		r        rune
		key      keyboard.Key
		expected Event
		handled  bool
	}{
		{'w', 0, Event{Direction: Up}, true},
		{'A', 0, Event{Direction: Left}, true},
		{'s', 0, Event{Direction: Down}, true},
		{'d', 0, Event{Direction: Right}, true},
		{0, keyboard.KeyArrowUp, Event{Direction: Up}, true},
		{0, keyboard.KeyArrowLeft, Event{Direction: Left}, true},
		{0, keyboard.KeyEsc, Event{Quit: true}, true},
		{0, keyboard.KeyCtrlC, Event{Quit: true}, true},
		{'q', 0, Event{Quit: true}, true},
		{'x', 0, Event{}, false},
	}

	for _, testCase := range testCases {
		ev, handled := Translate(testCase.r, testCase.key)
		assert.Equal(t, testCase.handled, handled, "rune %q key %v", testCase.r, testCase.key)
		assert.Equal(t, testCase.expected, ev)
	}
}

func TestDirectionNormalize(t *testing.T) {
	t.Parallel()

	d := Direction{X: 3, Y: 4}.Normalize()
	assert.InDelta(t, 0.6, d.X, 1e-12)
	assert.InDelta(t, 0.8, d.Y, 1e-12)
	assert.InDelta(t, 1.0, d.Magnitude(), 1e-12)

	assert.Equal(t, Direction{}, Direction{}.Normalize())
}

func TestForwardStampsEvents(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	fake := testingclock.NewFakeClock(now)

	keys := make(chan keyboard.KeyEvent, 3)
	keys <- keyboard.KeyEvent{Rune: 'x'}
	keys <- keyboard.KeyEvent{Rune: 'd'}
	keys <- keyboard.KeyEvent{Key: keyboard.KeyEsc}
	close(keys)

	events := make(chan Event, 3)
	err := forward(context.Background(), fake, keys, events)
	require.NoError(t, err)
	close(events)

	got := []Event{}
	for ev := range events {
		got = append(got, ev)
	}
	assert.Equal(t, []Event{
		{Direction: Right, At: now},
		{Quit: true, At: now},
	}, got)
}

func TestForwardStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := forward(ctx, testingclock.NewFakeClock(time.Now()), make(chan keyboard.KeyEvent), make(chan Event))
	assert.ErrorIs(t, err, context.Canceled)
}

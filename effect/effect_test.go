package effect

import (
	"testing"
	"time"

	"github.com/fogleman/ease"
	"github.com/stretchr/testify/assert"
)

func TestEffects(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	testCases := []struct {
		easingFunc ease.Function
		duration   time.Duration
		elapsed    time.Duration
		progress   float64
		expected   float64
		active     bool
	}{
		{ease.Linear, time.Second, 0, 0, 0, true},
		{ease.Linear, time.Second, 500 * time.Millisecond, 0.5, 0.5, true},
		{ease.InOutQuad, time.Second, 250 * time.Millisecond, 0.25, 0.125, true},
		{ease.InOutQuad, time.Second, 500 * time.Millisecond, 0.5, 0.5, true},
		{ease.InOutQuad, time.Second, time.Second, 1, 1, false},
		{ease.Linear, time.Second, 3 * time.Second, 1, 1, false},
		{ease.Linear, 0, 0, 1, 1, false},
	}

	for _, testCase := range testCases {
		effect := NewEffect(testCase.easingFunc, testCase.duration)
		effect.Start(start)

		progress, value, active := effect.Update(start.Add(testCase.elapsed))
		assert.InDelta(t, testCase.progress, progress, 1e-9)
		assert.InDelta(t, testCase.expected, value, 1e-9)
		assert.Equal(t, testCase.active, active)
	}
}

func TestEffectRestartSupersedes(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	effect := NewEffect(nil, time.Second)

	effect.Start(start)
	effect.Start(start.Add(900 * time.Millisecond))

	progress, _, active := effect.Update(start.Add(time.Second))
	assert.True(t, active)
	assert.InDelta(t, 0.1, progress, 1e-9)
	assert.Equal(t, start.Add(900*time.Millisecond), effect.StartedAt())

	effect.Stop()
	_, _, active = effect.Update(start.Add(time.Second))
	assert.False(t, active)
}

func TestFPS(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 25*time.Millisecond, FPS(40))
}

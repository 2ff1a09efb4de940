package score

import (
	"math"
	"testing"

	"github.com/robmorgan/tempo/timing"
	"github.com/stretchr/testify/assert"
)

func TestTallyCounts(t *testing.T) {
	t.Parallel()

	tally := NewTally()
	tally.Add(1, timing.Judgement{Distance: -0.01, Grade: timing.Perfect})
	tally.Add(2, timing.Judgement{Distance: 0.07, Grade: timing.Good})
	tally.Add(3, timing.Judgement{Distance: 0.3, Grade: timing.Miss})
	tally.Add(4, timing.Judgement{Distance: -0.02, Grade: timing.Perfect})

	assert.Equal(t, 2, tally.Count(timing.Perfect))
	assert.Equal(t, 1, tally.Count(timing.Good))
	assert.Equal(t, 0, tally.Count(timing.Ok))
	assert.Equal(t, 1, tally.Count(timing.Miss))
	assert.Equal(t, 4, tally.Total())
	assert.Equal(t, 3, tally.Hits())

	inputs := tally.Inputs()
	assert.Equal(t, Input{Beat: 3, Distance: 0.3, Grade: timing.Miss}, inputs[2])
}

func TestTallyStatisticsIgnoreMisses(t *testing.T) {
	t.Parallel()

	tally := NewTally()
	tally.Add(1, timing.Judgement{Distance: -0.02, Grade: timing.Perfect})
	tally.Add(2, timing.Judgement{Distance: 0.04, Grade: timing.Perfect})
	tally.Add(3, timing.Judgement{Distance: 0.4, Grade: timing.Miss})

	assert.InDelta(t, 0.01, tally.Mean(), 1e-12)
	// sample stdev of {-0.02, 0.04}
	assert.InDelta(t, math.Sqrt(0.0018), tally.Stdev(), 1e-12)
}

func TestEmptyTally(t *testing.T) {
	t.Parallel()

	tally := NewTally()
	assert.Equal(t, 0.0, tally.Mean())
	assert.Equal(t, 0.0, tally.Stdev())
	assert.Empty(t, tally.Inputs())
}

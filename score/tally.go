package score

import (
	"math"

	"github.com/robmorgan/tempo/timing"
)

// Input is one judged player action.
type Input struct {
	Beat     int64        `json:"beat"`
	Distance float64      `json:"distance"`
	Grade    timing.Grade `json:"grade"`
}

// Tally accumulates judgements for a session. It is not safe for concurrent use.
type Tally struct {
	counts map[timing.Grade]int
	inputs []Input
}

func NewTally() *Tally {
	return &Tally{
		counts: make(map[timing.Grade]int),
		inputs: make([]Input, 0),
	}
}

// Add records j as an input made during beat.
func (t *Tally) Add(beat int64, j timing.Judgement) {
	t.counts[j.Grade]++
	t.inputs = append(t.inputs, Input{Beat: beat, Distance: j.Distance, Grade: j.Grade})
}

// Count returns how many inputs received grade g.
func (t *Tally) Count(g timing.Grade) int {
	return t.counts[g]
}

// Total returns the number of inputs recorded.
func (t *Tally) Total() int {
	return len(t.inputs)
}

// Hits returns the number of inputs graded better than Miss.
func (t *Tally) Hits() int {
	return t.Total() - t.counts[timing.Miss]
}

// Inputs returns a copy of every recorded input, in order.
func (t *Tally) Inputs() []Input {
	out := make([]Input, len(t.inputs))
	copy(out, t.inputs)
	return out
}

// Mean returns the mean signed distance of the hits, in seconds. A negative mean means the
// player tends to be late.
func (t *Tally) Mean() float64 {
	sum, n := 0.0, 0
	for _, in := range t.inputs {
		if in.Grade == timing.Miss {
			continue
		}
		sum += in.Distance
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Stdev returns the sample standard deviation of the hits' signed distances.
func (t *Tally) Stdev() float64 {
	hits := t.Hits()
	if hits < 2 {
		return 0
	}

	mean := t.Mean()
	stdev := 0.0
	for _, in := range t.inputs {
		if in.Grade == timing.Miss {
			continue
		}
		xi := in.Distance - mean
		stdev += xi * xi
	}
	stdev /= float64(hits - 1)
	return math.Sqrt(stdev)
}

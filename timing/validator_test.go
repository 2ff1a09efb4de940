package timing

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/tempo/rhythm"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDistance float64

func (d fixedDistance) DistanceToNearestBeat() float64 {
	return float64(d)
}

type judgementRecorder struct {
	judgements []Judgement
}

func (r *judgementRecorder) Judged(j Judgement) {
	r.judgements = append(r.judgements, j)
}

func newTestValidator(source Source, opts ...Option) (*Validator, *test.Hook) {
	log, hook := test.NewNullLogger()
	opts = append([]Option{WithLogger(logrus.NewEntry(log))}, opts...)
	return NewValidator(source, opts...), hook
}

func TestGradeBoundariesAgainstClock(t *testing.T) {
	t.Parallel()

	origin := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	testCases := []struct {
		distance float64
		expected Grade
		onBeat   bool
	}{
		{0.0, Perfect, true},
		{0.045, Perfect, true},
		{0.09, Good, true},
		{0.15, Ok, true},
		{0.16, Miss, false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(fmt.Sprintf("%.3fs", testCase.distance), func(t *testing.T) {
			t.Parallel()

			log, _ := test.NewNullLogger()
			clock, err := rhythm.NewClock(120, rhythm.WithOrigin(origin), rhythm.WithLogger(logrus.NewEntry(log)))
			require.NoError(t, err)

			// land the distance before the first beat at 0.5s
			position := 0.5 - testCase.distance
			clock.Advance(origin.Add(time.Duration(math.Round(position * float64(time.Second)))))

			v, _ := newTestValidator(clock)
			grade, err := v.TimingGrade(DefaultTolerance)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, grade)

			onBeat, err := v.IsOnBeat(DefaultTolerance)
			require.NoError(t, err)
			assert.Equal(t, testCase.onBeat, onBeat)
		})
	}
}

func TestTimingAccuracy(t *testing.T) {
	t.Parallel()

	v, _ := newTestValidator(fixedDistance(-0.075))
	accuracy, err := v.TimingAccuracy(0.15)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, accuracy, 1e-9)

	accuracy, err = v.TimingAccuracy(0.05)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, accuracy, 1e-9)
}

func TestIsOnBeatUsesAbsoluteDistance(t *testing.T) {
	t.Parallel()

	for _, d := range []float64{-0.1, 0.1} {
		v, _ := newTestValidator(fixedDistance(d))
		onBeat, err := v.IsOnBeat(DefaultTolerance)
		require.NoError(t, err)
		assert.True(t, onBeat, "distance %v", d)
	}

	v, _ := newTestValidator(fixedDistance(-0.2))
	onBeat, err := v.IsOnBeat(DefaultTolerance)
	require.NoError(t, err)
	assert.False(t, onBeat)
}

func TestValidatorWithoutClockFailsClosed(t *testing.T) {
	t.Parallel()

	v, hook := newTestValidator(nil)

	onBeat, err := v.IsOnBeat(DefaultTolerance)
	assert.False(t, onBeat)
	assert.True(t, errors.IsError(err, ErrNoClock))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	accuracy, err := v.TimingAccuracy(DefaultTolerance)
	assert.Equal(t, 1.0, accuracy)
	assert.True(t, errors.IsError(err, ErrNoClock))

	grade, err := v.TimingGrade(DefaultTolerance)
	assert.Equal(t, Miss, grade)
	assert.True(t, errors.IsError(err, ErrNoClock))

	j, err := v.Judge(DefaultTolerance)
	assert.True(t, errors.IsError(err, ErrNoClock))
	assert.False(t, j.OnBeat)
	assert.Equal(t, Miss, j.Grade)
}

func TestValidatorRejectsInvalidTolerance(t *testing.T) {
	t.Parallel()

	v, _ := newTestValidator(fixedDistance(0))
	for _, tolerance := range []float64{0, -0.15, math.NaN(), math.Inf(1)} {
		_, err := v.IsOnBeat(tolerance)
		require.Error(t, err)
		assert.IsType(t, InvalidToleranceError{}, errors.Unwrap(err))

		_, err = v.TimingAccuracy(tolerance)
		require.Error(t, err)

		_, err = v.TimingGrade(tolerance)
		require.Error(t, err)
	}

	// the tolerance is checked before the missing clock
	noClock, _ := newTestValidator(nil)
	_, err := noClock.IsOnBeat(0)
	assert.IsType(t, InvalidToleranceError{}, errors.Unwrap(err))
}

func TestJudge(t *testing.T) {
	t.Parallel()

	rec := &judgementRecorder{}
	v, _ := newTestValidator(fixedDistance(-0.06), WithRecorder(rec))

	j, err := v.Judge(DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, -0.06, j.Distance)
	assert.InDelta(t, 0.4, j.Accuracy, 1e-9)
	assert.True(t, j.OnBeat)
	assert.Equal(t, Good, j.Grade)
	assert.Equal(t, []Judgement{j}, rec.judgements)
}

func TestQueriesDoNotMutateClock(t *testing.T) {
	t.Parallel()

	origin := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	log, _ := test.NewNullLogger()
	clock, err := rhythm.NewClock(100, rhythm.WithOrigin(origin), rhythm.WithLogger(logrus.NewEntry(log)))
	require.NoError(t, err)
	clock.Advance(origin.Add(2345 * time.Millisecond))
	before := clock.Snapshot()

	v, _ := newTestValidator(clock)
	for i := 0; i < 3; i++ {
		_, err := v.Judge(DefaultTolerance)
		require.NoError(t, err)
	}
	assert.Equal(t, before, clock.Snapshot())
}

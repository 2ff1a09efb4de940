package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

type ticks struct {
	mu  sync.Mutex
	got []time.Time
}

func (t *ticks) record(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.got = append(t.got, now)
}

func (t *ticks) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.got)
}

func TestLoopCallsUpdateEachTick(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	fake := testingclock.NewFakeClock(start)
	recorded := &ticks{}

	loop, err := New(fake, 50, recorded.record)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, loop.Interval())

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}
	loop.Start(ctx, &wg)

	require.Eventually(t, fake.HasWaiters, time.Second, time.Millisecond)
	for i := 1; i <= 3; i++ {
		fake.Step(20 * time.Millisecond)
		expected := i
		require.Eventually(t, func() bool { return recorded.count() == expected }, time.Second, time.Millisecond)
	}

	cancel()
	wg.Wait()

	recorded.mu.Lock()
	defer recorded.mu.Unlock()
	assert.Equal(t, start.Add(60*time.Millisecond), recorded.got[2])
}

func TestRunReturnsOnCancel(t *testing.T) {
	t.Parallel()

	loop, err := New(testingclock.NewFakeClock(time.Now()), 60, func(time.Time) {})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, loop.Run(ctx), context.Canceled)
}

func TestNewRejectsNonPositiveTickRate(t *testing.T) {
	t.Parallel()

	for _, rate := range []int{0, -1} {
		_, err := New(testingclock.NewFakeClock(time.Now()), rate, func(time.Time) {})
		require.Error(t, err)
		assert.IsType(t, InvalidTickRateError{}, errors.Unwrap(err))
	}
}

package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/tempo/logger"
	"k8s.io/utils/clock"
)

// InvalidTickRateError is returned for a tick rate that is not a positive number of ticks per second.
type InvalidTickRateError struct {
	TickRate int
}

func (e InvalidTickRateError) Error() string {
	return fmt.Sprintf("tick rate must be positive, got %d", e.TickRate)
}

// Loop calls onUpdate once per tick with the time of the tick.
type Loop struct {
	clock    clock.WithTicker
	tickRate int
	onUpdate func(now time.Time)
}

// New creates a game loop ticking tickRate times per second.
func New(cl clock.WithTicker, tickRate int, onUpdate func(now time.Time)) (*Loop, error) {
	if tickRate <= 0 {
		return nil, errors.WithStackTrace(InvalidTickRateError{TickRate: tickRate})
	}
	return &Loop{
		clock:    cl,
		tickRate: tickRate,
		onUpdate: onUpdate,
	}, nil
}

// TickRate returns the number of ticks per second.
func (l *Loop) TickRate() int {
	return l.tickRate
}

// Interval returns the time between ticks.
func (l *Loop) Interval() time.Duration {
	return time.Second / time.Duration(l.tickRate)
}

// Run ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	logger := logger.GetProjectLogger()
	logger.Infof("Game loop started at %d ticks per second", l.tickRate)

	ticker := l.clock.NewTicker(l.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Game loop shutdown")
			return ctx.Err()
		case now := <-ticker.C():
			l.onUpdate(now)
		}
	}
}

// Start runs the loop in its own goroutine. wg is released when the loop exits.
func (l *Loop) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = l.Run(ctx)
	}()
}

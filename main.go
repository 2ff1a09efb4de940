package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/hypebeast/go-osc/osc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robmorgan/tempo/config"
	"github.com/robmorgan/tempo/effect"
	"github.com/robmorgan/tempo/engine"
	"github.com/robmorgan/tempo/input"
	"github.com/robmorgan/tempo/logger"
	"github.com/robmorgan/tempo/metrics"
	"github.com/robmorgan/tempo/oscbeat"
	"github.com/robmorgan/tempo/player"
	"github.com/robmorgan/tempo/rhythm"
	"github.com/robmorgan/tempo/score"
	"github.com/robmorgan/tempo/timing"
	"k8s.io/utils/clock"
)

const (
	inputBuffer = 16
	oscBuffer   = 16
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "tempo: %v\n", err)
		os.Exit(1)
	}

	if err := Run(context.Background(), cfg, os.Stdout); err != nil {
		logger.GetProjectLogger().Errorf("tempo exited with error: %v", err)
		os.Exit(1)
	}
}

// Run plays a session until the player quits or the process is interrupted.
func Run(ctx context.Context, cfg config.TempoConfig, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	logger := logger.GetProjectLogger()

	wg := sync.WaitGroup{}
	realClock := clock.RealClock{}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	if cfg.MetricsAddr != "" {
		serveMetrics(ctx, cfg.MetricsAddr, registry, &wg)
	}

	var store *score.Store
	if cfg.DBPath != "" {
		logger.Infof("Opening score database %s...", cfg.DBPath)
		s, err := score.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	logger.Info("Starting clock...")
	clk, err := rhythm.NewClock(cfg.BPM,
		rhythm.WithTimeSource(realClock),
		rhythm.WithBeatsPerBar(cfg.BeatsPerBar),
		rhythm.WithRecorder(m),
	)
	if err != nil {
		return err
	}

	pulse := effect.NewPulse(realClock, cfg.Pulse)
	sub, err := clk.Subscribe(pulse)
	if err != nil {
		return err
	}
	defer sub.Close()

	if cfg.OSCHost != "" {
		logger.Infof("Sending beats to OSC %s:%d", cfg.OSCHost, cfg.OSCPort)
		broadcaster := oscbeat.NewBroadcaster(osc.NewClient(cfg.OSCHost, cfg.OSCPort), cfg.BeatsPerBar, oscBuffer, m)
		oscSub, err := clk.Subscribe(broadcaster)
		if err != nil {
			return err
		}
		defer oscSub.Close()

		wg.Add(1)
		go broadcaster.Run(ctx, &wg)
	}

	validator := timing.NewValidator(clk, timing.WithRecorder(m))
	controller := player.NewController(validator, cfg.Player, player.Position{})
	tally := score.NewTally()

	events := make(chan input.Event, inputBuffer)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := input.Listen(ctx, realClock, events); err != nil && !errors.IsError(err, context.Canceled) {
			logger.Errorf("keyboard input stopped: %v", err)
			cancel()
		}
	}()

	fmt.Fprint(out, renderHelp(cfg.BPM))
	var status string
	update := func(now time.Time) {
		clk.Advance(now)

	drain:
		for {
			select {
			case ev := <-events:
				if ev.Quit {
					cancel()
					return
				}
				outcome := controller.HandleInput(ev.At, ev.Direction)
				if outcome.Ignored {
					continue
				}
				tally.Add(clk.BeatCount(), outcome.Judgement)
				fmt.Fprint(out, renderJudgement(outcome))
				status = ""
			default:
				break drain
			}
		}

		controller.Update(now)
		if next := renderStatus(pulse.Frame(now), clk.Snapshot(), controller.State(), controller.Position()); next != status {
			status = next
			fmt.Fprint(out, status)
		}
	}

	loop, err := engine.New(realClock, cfg.TickRate, update)
	if err != nil {
		return err
	}
	loop.Start(ctx, &wg)

	// handle CTRL+C interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	}
	logger.Info("shutting down tempo")
	cancel()
	wg.Wait()

	fmt.Fprint(out, renderSummary(tally))

	if store != nil {
		id, err := store.Save(score.Session{
			StartedAt: clk.Origin(),
			BPM:       clk.BPM(),
			Tolerance: cfg.Tolerance,
			Inputs:    tally.Inputs(),
		})
		if err != nil {
			return err
		}
		logger.Infof("Saved session %d", id)
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, registry *prometheus.Registry, wg *sync.WaitGroup) {
	logger := logger.GetProjectLogger()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}

	wg.Add(2)
	go func() {
		defer wg.Done()
		logger.Infof("Serving metrics on %s/metrics", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("metrics server failed: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("metrics server shutdown: %v", err)
		}
	}()
}

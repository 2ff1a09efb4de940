package config

import (
	"github.com/gruntwork-io/go-commons/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Version is reported by --version.
const Version = "0.1.0"

// Parse builds a TempoConfig from command line arguments, excluding the program name.
func Parse(args []string) (TempoConfig, error) {
	cfg := NewTempoConfig()
	app := newApp(&cfg)

	beatColor := app.Flag("beat-color", "Colour the beat pulse flashes").Default(cfg.Pulse.BeatColor.Hex()).String()

	if _, err := app.Parse(args); err != nil {
		return TempoConfig{}, errors.WithStackTrace(err)
	}

	color, err := parseColor(*beatColor)
	if err != nil {
		return TempoConfig{}, err
	}
	cfg.Pulse.BeatColor = color
	cfg.Player.Tolerance = cfg.Tolerance

	if err := cfg.Validate(); err != nil {
		return TempoConfig{}, err
	}
	return cfg, nil
}

func newApp(cfg *TempoConfig) *kingpin.Application {
	app := kingpin.New("tempo", "Move on the beat.")
	app.Version(Version)
	app.HelpFlag.Short('h')

	app.Flag("bpm", "Song tempo in beats per minute").Default("120").Short('b').Float64Var(&cfg.BPM)
	app.Flag("beats-per-bar", "Beats in each bar").Default("4").IntVar(&cfg.BeatsPerBar)
	app.Flag("tolerance", "Seconds either side of a beat that count as on beat").Default("0.15").Short('t').Float64Var(&cfg.Tolerance)
	app.Flag("tick-rate", "Game loop ticks per second").Default("60").IntVar(&cfg.TickRate)
	app.Flag("pulse-duration", "Length of the beat pulse").Default("200ms").DurationVar(&cfg.Pulse.Duration)
	app.Flag("move-duration", "Length of a move").Default("200ms").DurationVar(&cfg.Player.MoveDuration)
	app.Flag("stumble-duration", "How long an off-beat input locks out the player").Default("500ms").DurationVar(&cfg.Player.StumbleDuration)
	app.Flag("osc-host", "Host to send OSC beat messages to, disabled when empty").StringVar(&cfg.OSCHost)
	app.Flag("osc-port", "Port to send OSC beat messages to").Default("9000").IntVar(&cfg.OSCPort)
	app.Flag("db", "SQLite database to record sessions in, disabled when empty").StringVar(&cfg.DBPath)
	app.Flag("metrics-addr", "Address to serve Prometheus metrics on, disabled when empty").StringVar(&cfg.MetricsAddr)
	app.Flag("log-level", "Log level").Default("info").EnumVar(&cfg.LogLevel, "trace", "debug", "info", "warn", "error")

	return app
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robmorgan/tempo/timing"
)

// Metrics holds the engine's Prometheus collectors. It satisfies rhythm.Recorder and
// timing.Recorder so it can be handed straight to the clock and the validator.
type Metrics struct {
	Beats        prometheus.Counter
	SkippedBeats prometheus.Counter
	Regressions  prometheus.Counter
	SongPosition prometheus.Gauge
	Judgements   *prometheus.CounterVec
	OSCDropped   prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Beats: factory.NewCounter(prometheus.CounterOpts{
			Name: "tempo_beats_total",
			Help: "Number of beat crossings notified",
		}),
		SkippedBeats: factory.NewCounter(prometheus.CounterOpts{
			Name: "tempo_skipped_beats_total",
			Help: "Number of beat boundaries passed within a single tick without their own notification",
		}),
		Regressions: factory.NewCounter(prometheus.CounterOpts{
			Name: "tempo_time_regressions_total",
			Help: "Number of advances where the time source went backwards",
		}),
		SongPosition: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tempo_song_position_seconds",
			Help: "Song position at the last beat crossing",
		}),
		Judgements: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tempo_judgements_total",
			Help: "Number of inputs judged, by grade",
		}, []string{"grade"}),
		OSCDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "tempo_osc_beats_dropped_total",
			Help: "Number of beats not forwarded over OSC because the queue was full",
		}),
	}
}

func (m *Metrics) BeatCrossed(beat int64, skipped int64, position float64) {
	m.Beats.Inc()
	m.SkippedBeats.Add(float64(skipped))
	m.SongPosition.Set(position)
}

func (m *Metrics) TimeRegressed(time.Duration) {
	m.Regressions.Inc()
}

func (m *Metrics) Judged(j timing.Judgement) {
	m.Judgements.WithLabelValues(j.Grade.String()).Inc()
}

func (m *Metrics) BeatDropped(int64) {
	m.OSCDropped.Inc()
}

package timing

import (
	"fmt"
	"math"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/tempo/logger"
	"github.com/sirupsen/logrus"
)

// DefaultTolerance is the half-width, in seconds, of the window around a beat within which
// input counts as on beat.
const DefaultTolerance = 0.15

// slack absorbs float noise from nanosecond time arithmetic at the band boundaries.
const slack = 1e-9

// ErrNoClock is returned when a validator has no clock to read.
var ErrNoClock = fmt.Errorf("no active clock to validate timing against")

// InvalidToleranceError is returned for a tolerance that is not a positive, finite number of seconds.
type InvalidToleranceError struct {
	Tolerance float64
}

func (e InvalidToleranceError) Error() string {
	return fmt.Sprintf("tolerance must be a positive number of seconds, got %v", e.Tolerance)
}

// Source is anything that knows the signed distance to the nearest beat, such as a
// *rhythm.Clock or a rhythm.Snapshot.
type Source interface {
	DistanceToNearestBeat() float64
}

// Recorder is told about every graded judgement.
type Recorder interface {
	Judged(j Judgement)
}

// Judgement is the classification of a single input against one distance reading.
type Judgement struct {
	// Distance is the signed distance to the nearest beat, in seconds.
	Distance float64
	Accuracy float64
	OnBeat   bool
	Grade    Grade
}

// Validator grades input timing against a beat source. It holds no timing state of its own.
type Validator struct {
	source   Source
	logger   *logrus.Entry
	recorder Recorder
}

type Option func(*Validator)

func WithLogger(entry *logrus.Entry) Option {
	return func(v *Validator) {
		v.logger = entry
	}
}

func WithRecorder(r Recorder) Option {
	return func(v *Validator) {
		v.recorder = r
	}
}

// NewValidator creates a Validator reading from source. A nil source is allowed; every
// query then fails closed with ErrNoClock.
func NewValidator(source Source, opts ...Option) *Validator {
	v := &Validator{source: source}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = logger.GetProjectLogger()
	}
	return v
}

// IsOnBeat reports whether the nearest beat is within tolerance seconds.
func (v *Validator) IsOnBeat(tolerance float64) (bool, error) {
	distance, err := v.distance(tolerance)
	if err != nil {
		return false, err
	}
	return math.Abs(distance) <= tolerance+slack, nil
}

// TimingAccuracy returns the distance to the nearest beat as a fraction of tolerance:
// 0 is perfect, 1 is the edge of the window, and anything above 1 is a miss. Without a
// clock it returns 1 together with ErrNoClock.
func (v *Validator) TimingAccuracy(tolerance float64) (float64, error) {
	distance, err := v.distance(tolerance)
	if err != nil {
		if errors.IsError(err, ErrNoClock) {
			return 1.0, err
		}
		return 0, err
	}
	return math.Abs(distance) / tolerance, nil
}

// TimingGrade bands the current accuracy. Without a clock it returns Miss with ErrNoClock.
func (v *Validator) TimingGrade(tolerance float64) (Grade, error) {
	accuracy, err := v.TimingAccuracy(tolerance)
	if err != nil {
		return Miss, err
	}
	return GradeFor(accuracy), nil
}

// Judge classifies the current instant from a single distance reading.
func (v *Validator) Judge(tolerance float64) (Judgement, error) {
	distance, err := v.distance(tolerance)
	if err != nil {
		return Judgement{Accuracy: 1.0, Grade: Miss}, err
	}

	accuracy := math.Abs(distance) / tolerance
	j := Judgement{
		Distance: distance,
		Accuracy: accuracy,
		OnBeat:   math.Abs(distance) <= tolerance+slack,
		Grade:    GradeFor(accuracy),
	}
	if v.recorder != nil {
		v.recorder.Judged(j)
	}

	v.logger.WithFields(logrus.Fields{
		"distance": fmt.Sprintf("%+.3fs", distance),
		"accuracy": fmt.Sprintf("%.2f", accuracy),
	}).Debugf("Judged %s", j.Grade)
	return j, nil
}

func (v *Validator) distance(tolerance float64) (float64, error) {
	if tolerance <= 0 || math.IsNaN(tolerance) || math.IsInf(tolerance, 0) {
		return 0, errors.WithStackTrace(InvalidToleranceError{Tolerance: tolerance})
	}
	if v == nil || v.source == nil {
		if v != nil {
			v.logger.Warn("No clock found, treating input as off beat")
		}
		return 0, errors.WithStackTrace(ErrNoClock)
	}
	return v.source.DistanceToNearestBeat(), nil
}

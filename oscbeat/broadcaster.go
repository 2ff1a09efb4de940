package oscbeat

import (
	"context"
	"sync"

	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/tempo/logger"
	"github.com/sirupsen/logrus"
)

// BeatAddress is the OSC address beats are sent to.
const BeatAddress = "/tempo/beat"

// Sender is the interface for sending packets to an OSC endpoint. *osc.Client implements it.
type Sender interface {
	Send(packet osc.Packet) error
}

// DropRecorder is told when a beat could not be queued.
type DropRecorder interface {
	BeatDropped(beat int64)
}

// Broadcaster forwards beat notifications over OSC. OnBeat only queues the beat, so the
// clock's tick never waits on the network; Run does the sending.
type Broadcaster struct {
	sender      Sender
	beatsPerBar int
	beats       chan int64
	logger      *logrus.Entry
	dropped     DropRecorder
}

// NewBroadcaster creates a Broadcaster queueing up to buffer beats.
func NewBroadcaster(sender Sender, beatsPerBar int, buffer int, dropped DropRecorder) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster{
		sender:      sender,
		beatsPerBar: beatsPerBar,
		beats:       make(chan int64, buffer),
		logger:      logger.GetProjectLogger().WithField("component", "oscbeat"),
		dropped:     dropped,
	}
}

// OnBeat queues beat for sending, dropping it if the queue is full.
func (b *Broadcaster) OnBeat(beat int64) {
	select {
	case b.beats <- beat:
	default:
		if b.dropped != nil {
			b.dropped.BeatDropped(beat)
		}
	}
}

// Run sends queued beats until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context, wg *sync.WaitGroup) error {
	defer wg.Done()

	b.logger.Info("OSC beat broadcaster started")
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("OSC beat broadcaster shutdown")
			return ctx.Err()
		case beat := <-b.beats:
			if err := b.sender.Send(b.message(beat)); err != nil {
				b.logger.WithField("beat", beat).Errorf("could not send beat: %v", err)
			}
		}
	}
}

func (b *Broadcaster) message(beat int64) *osc.Message {
	msg := osc.NewMessage(BeatAddress)
	msg.Append(int32(beat))

	withinBar := int32(1)
	if b.beatsPerBar > 0 {
		withinBar = int32(beat%int64(b.beatsPerBar)) + 1
	}
	msg.Append(withinBar)
	return msg
}

package evidence

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Ack is a sink's acknowledgment of one packet.
type Ack struct {
	Ack        bool      `json:"ack"`
	EvidenceID string    `json:"evidence_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// Sink is an external compliance destination.
type Sink interface {
	Name() string
	Send(ctx context.Context, p Packet) (Ack, error)
}

// SimulatedSink acknowledges every packet without leaving the process.
// Stands in for a real audit integration when none is configured.
type SimulatedSink struct {
	SinkName string
}

func (s SimulatedSink) Name() string { return s.SinkName }

func (s SimulatedSink) Send(ctx context.Context, p Packet) (Ack, error) {
	return Ack{
		Ack:        true,
		EvidenceID: fmt.Sprintf("%s-%s", s.SinkName, p.RunID),
		Timestamp:  time.Now(),
	}, nil
}

// Dispatcher fans one packet out to every configured sink. Every send is
// appended to the log whether or not the sink acknowledged it; a sink
// failure never blocks the remaining sinks.
type Dispatcher struct {
	sinks []Sink
	eLog  *Log
	log   *zap.Logger
}

func NewDispatcher(sinks []Sink, eLog *Log, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{sinks: sinks, eLog: eLog, log: log}
}

// Dispatch sends the packet everywhere and returns one ack per sink, in
// sink order. Failed sends yield a zero ack with Ack false.
func (d *Dispatcher) Dispatch(ctx context.Context, p Packet) []Ack {
	acks := make([]Ack, 0, len(d.sinks))
	for _, sink := range d.sinks {
		ack, err := sink.Send(ctx, p)
		if err != nil {
			d.log.Warn("evidence sink send failed",
				zap.String("sink", sink.Name()), zap.String("run_id", p.RunID), zap.Error(err))
			ack = Ack{}
		}
		if err := d.eLog.Append(sink.Name(), time.Now(), p); err != nil {
			d.log.Error("evidence log append failed",
				zap.String("sink", sink.Name()), zap.String("run_id", p.RunID), zap.Error(err))
		}
		acks = append(acks, ack)
	}
	return acks
}

// Package intake connects the external registration feed to the queue.
// The feed supplies newly registered, untriaged patients; the adapter
// enqueues each one. De-duplication is the feed's responsibility, but the
// adapter tolerates duplicates by logging and moving on.
package intake

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/igd/triage/internal/domain/queue"
)

// Arrival is one newly registered patient surfaced by the feed.
type Arrival struct {
	PatientRef     uuid.UUID `json:"patient_ref"`
	ArrivalTime    time.Time `json:"arrival_time"`
	ChiefComplaint string    `json:"chief_complaint"`
}

// Feed is the external registration source. Next blocks until an arrival
// is available and returns io.EOF when the feed is exhausted.
type Feed interface {
	Next(ctx context.Context) (Arrival, error)
}

type Adapter struct {
	feed   Feed
	queue  *queue.Manager
	logger zerolog.Logger
}

func NewAdapter(feed Feed, q *queue.Manager, logger zerolog.Logger) *Adapter {
	return &Adapter{feed: feed, queue: q, logger: logger}
}

// Run drains the feed until it is exhausted or the context is cancelled.
// Duplicate registrations are logged and skipped; they never stop intake.
func (a *Adapter) Run(ctx context.Context) error {
	for {
		arrival, err := a.feed.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		if err := a.queue.Enqueue(arrival.PatientRef, arrival.ArrivalTime, arrival.ChiefComplaint); err != nil {
			if errors.Is(err, queue.ErrDuplicateEntry) {
				a.logger.Warn().
					Str("patient_ref", arrival.PatientRef.String()).
					Msg("feed supplied duplicate registration, skipped")
				continue
			}
			return err
		}
		a.logger.Info().
			Str("patient_ref", arrival.PatientRef.String()).
			Time("arrival_time", arrival.ArrivalTime).
			Msg("patient enqueued")
	}
}

// ChannelFeed adapts a channel of arrivals to the Feed interface. Closing
// the channel ends the feed.
type ChannelFeed struct {
	C chan Arrival
}

func NewChannelFeed(buffer int) *ChannelFeed {
	return &ChannelFeed{C: make(chan Arrival, buffer)}
}

func (f *ChannelFeed) Next(ctx context.Context) (Arrival, error) {
	select {
	case <-ctx.Done():
		return Arrival{}, ctx.Err()
	case arrival, ok := <-f.C:
		if !ok {
			return Arrival{}, io.EOF
		}
		return arrival, nil
	}
}

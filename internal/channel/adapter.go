// Package channel turns the initial pull and the pushed state_update
// events into deltas for the dashboard.
package channel

import (
	"context"
	"encoding/json"

	"github.com/rewired-gh/tradedash/internal/logger"
	"github.com/rewired-gh/tradedash/internal/models"
)

// EventStateUpdate is the only pushed event the adapter applies.
const EventStateUpdate = "state_update"

// StateFetcher pulls the full state.
type StateFetcher interface {
	FetchState(ctx context.Context) (models.Delta, error)
}

// Sink receives deltas in application order.
type Sink interface {
	Apply(models.Delta)
}

// Adapter normalizes both update sources into deltas.
type Adapter struct {
	api  StateFetcher
	sink Sink
}

// NewAdapter creates an adapter that feeds sink.
func NewAdapter(api StateFetcher, sink Sink) *Adapter {
	return &Adapter{api: api, sink: sink}
}

// LoadInitial starts a full-state pull in the background and returns a
// channel that yields its outcome. A failed pull is logged and leaves the
// snapshot as it was; nothing is retried. Pushed events are not held back
// while the pull is in flight, so whichever lands last wins.
func (a *Adapter) LoadInitial(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- a.Pull(ctx)
		close(done)
	}()
	return done
}

// Pull fetches the full state and applies it as a full replacement.
func (a *Adapter) Pull(ctx context.Context) error {
	d, err := a.api.FetchState(ctx)
	if err != nil {
		logger.Error("Failed to load initial state: %v", err)
		return err
	}
	logger.Debug("Applying full state (%d open, %d historical)",
		len(d.OpenPositions.Value), len(d.HistoricalTrades.Value))
	a.sink.Apply(d.Full())
	return nil
}

// HandleEvent is the stream handler. state_update payloads are applied
// field-present-wins; undecodable payloads are dropped.
func (a *Adapter) HandleEvent(name string, data json.RawMessage) {
	if name != EventStateUpdate {
		logger.Debug("Ignoring stream event %q", name)
		return
	}

	var d models.Delta
	if err := json.Unmarshal(data, &d); err != nil {
		logger.Warn("Dropping malformed %s payload: %v", name, err)
		return
	}
	a.sink.Apply(d)
}

// Package store holds the dashboard's single state snapshot and applies
// partial updates to it.
package store

import (
	"fmt"

	"github.com/rewired-gh/tradedash/internal/models"
)

// MergeMode controls how a delta's bot_state slot lands in the snapshot.
type MergeMode string

const (
	// MergeFields overwrites only the bot_state fields present in the delta.
	MergeFields MergeMode = "fields"
	// MergeReplace swaps the whole bot_state object.
	MergeReplace MergeMode = "replace"
)

// ParseMergeMode validates a configured merge mode.
func ParseMergeMode(s string) (MergeMode, error) {
	switch MergeMode(s) {
	case MergeReplace, MergeFields:
		return MergeMode(s), nil
	case "":
		return MergeFields, nil
	}
	return "", fmt.Errorf("unknown merge mode %q", s)
}

// Listener is called once after every applied delta with the new snapshot.
type Listener func(models.Snapshot)

// Store owns the snapshot. It is not safe for concurrent use; the
// dashboard loop is its only writer and reader.
type Store struct {
	snap      models.Snapshot
	mode      MergeMode
	listeners []Listener
}

// New returns a store at its built-in defaults: every field absent and
// both trade lists empty.
func New(mode MergeMode) *Store {
	if mode == "" {
		mode = MergeFields
	}
	return &Store{mode: mode}
}

// Subscribe registers l to run after each ApplyDelta.
func (s *Store) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// ApplyDelta replaces every slot set in d and leaves the others untouched.
// In MergeFields mode a partial bot_state keeps the fields it omits; a full
// delta always replaces it. Values are stored as received, without
// validation. Each call notifies the listeners exactly once, even for an
// empty delta.
func (s *Store) ApplyDelta(d models.Delta) {
	if d.BotState.Set {
		if s.mode == MergeFields && !d.IsFull() {
			s.snap.BotState = s.snap.BotState.Overlay(d.BotState.Value)
		} else {
			s.snap.BotState = d.BotState.Value
		}
	}
	if d.OpenPositions.Set {
		s.snap.OpenPositions = clone(d.OpenPositions.Value)
	}
	if d.HistoricalTrades.Set {
		s.snap.HistoricalTrades = clone(d.HistoricalTrades.Value)
	}

	snap := s.Snapshot()
	for _, l := range s.listeners {
		l(snap)
	}
}

// Snapshot returns a copy of the current state; callers may not mutate
// the store through it.
func (s *Store) Snapshot() models.Snapshot {
	return s.snap.Clone()
}

func clone(in []models.Trade) []models.Trade {
	out := make([]models.Trade, len(in))
	copy(out, in)
	return out
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Wire keys of the three top-level slots.
const (
	KeyBotState         = "bot_state"
	KeyOpenPositions    = "open_positions"
	KeyHistoricalTrades = "historical_trades"
)

// Slot is an optional top-level value of a Delta.
type Slot[T any] struct {
	Value T
	Set   bool
}

// Some returns a set slot holding v.
func Some[T any](v T) Slot[T] {
	return Slot[T]{Value: v, Set: true}
}

// Delta is a partial state payload. A set slot replaces the corresponding
// snapshot slot; an unset slot leaves it untouched.
type Delta struct {
	BotState         Slot[BotState]
	OpenPositions    Slot[[]Trade]
	HistoricalTrades Slot[[]Trade]

	full bool
}

// Full marks every slot as set, so applying the result replaces the whole
// snapshot, bot_state fields included. Slots missing from d become their
// empty values.
func (d Delta) Full() Delta {
	d.full = true
	d.BotState.Set = true
	if !d.OpenPositions.Set {
		d.OpenPositions = Some([]Trade{})
	}
	if !d.HistoricalTrades.Set {
		d.HistoricalTrades = Some([]Trade{})
	}
	return d
}

// IsFull reports whether d came from Full.
func (d Delta) IsFull() bool {
	return d.full
}

// Keys lists the wire keys of the set slots, for logging.
func (d Delta) Keys() []string {
	var keys []string
	if d.BotState.Set {
		keys = append(keys, KeyBotState)
	}
	if d.OpenPositions.Set {
		keys = append(keys, KeyOpenPositions)
	}
	if d.HistoricalTrades.Set {
		keys = append(keys, KeyHistoricalTrades)
	}
	return keys
}

// UnmarshalJSON decodes a payload object. Missing and null slots stay
// unset. A slot of the wrong shape is still set, to its empty value.
func (d *Delta) UnmarshalJSON(b []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("delta is not a JSON object: %w", err)
	}
	if obj == nil {
		return fmt.Errorf("delta is null")
	}

	*d = Delta{}
	if raw, ok := present(obj, KeyBotState); ok {
		var s BotState
		if err := json.Unmarshal(raw, &s); err != nil {
			s = BotState{}
		}
		d.BotState = Some(s)
	}
	if raw, ok := present(obj, KeyOpenPositions); ok {
		d.OpenPositions = Some(decodeTrades(raw))
	}
	if raw, ok := present(obj, KeyHistoricalTrades); ok {
		d.HistoricalTrades = Some(decodeTrades(raw))
	}
	return nil
}

func (d Delta) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, 3)
	if d.BotState.Set {
		obj[KeyBotState] = d.BotState.Value
	}
	if d.OpenPositions.Set {
		obj[KeyOpenPositions] = nonNil(d.OpenPositions.Value)
	}
	if d.HistoricalTrades.Set {
		obj[KeyHistoricalTrades] = nonNil(d.HistoricalTrades.Value)
	}
	return json.Marshal(obj)
}

func present(obj map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := obj[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return nil, false
	}
	return raw, true
}

func nonNil(t []Trade) []Trade {
	if t == nil {
		return []Trade{}
	}
	return t
}

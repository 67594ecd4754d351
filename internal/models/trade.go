package models

import (
	"encoding/json"
	"strings"
)

// Trade is either an open position (no close time) or a closed trade.
type Trade struct {
	ID         Str `json:"id"`
	Type       Str `json:"type"`
	Amount     Num `json:"amount"`
	PnLPercent Num `json:"pnl_percent"`
	PnLDollar  Num `json:"pnl_dollar"`
	OpenTime   Str `json:"open_time"`
	CloseTime  Str `json:"close_time"`
}

// Position directions reported by the bot.
const (
	Long  = "long"
	Short = "short"
)

// Direction returns the lower-cased position direction, long when unknown.
func (t Trade) Direction() string {
	return strings.ToLower(t.Type.Or(Long))
}

// decodeTrades decodes a JSON array of trades. Elements that are not
// objects decode as an empty Trade; a non-array decodes as an empty list.
func decodeTrades(raw json.RawMessage) []Trade {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []Trade{}
	}
	trades := make([]Trade, len(items))
	for i, item := range items {
		var t Trade
		if err := json.Unmarshal(item, &t); err != nil {
			t = Trade{}
		}
		trades[i] = t
	}
	return trades
}

// Package models defines the dashboard's state snapshot, trades and the
// partial update (delta) shape shared by the pull and push channels.
package models

// BotState is the bot's scalar status block. Every field is optional on
// arrival; defaults are applied only when rendering.
type BotState struct {
	Portfolio     Num `json:"portfolio"`
	SessionPnL    Num `json:"session_pnl"`
	HistoricalPnL Num `json:"historical_pnl"`
	RealGainLoss  Num `json:"real_gain_loss"`
	SessionTrades Num `json:"session_trades"`
	TradesWon     Num `json:"trades_won"`
	TradesLost    Num `json:"trades_lost"`
	BiggestWin    Num `json:"biggest_win"`
	MarketPrice   Num `json:"btc_price"`
	ChangeToday   Num `json:"btc_change_today"`
	Change15Min   Num `json:"btc_change_15min"`
	Change5Min    Num `json:"btc_change_5min"`
	Status        Str `json:"status"`
	LastSignal    Str `json:"last_signal"`
	NextCandle    Num `json:"next_candle_countdown"`
}

// Overlay returns b with every field that is present in o written over it.
func (b BotState) Overlay(o BotState) BotState {
	b.Portfolio = pickNum(b.Portfolio, o.Portfolio)
	b.SessionPnL = pickNum(b.SessionPnL, o.SessionPnL)
	b.HistoricalPnL = pickNum(b.HistoricalPnL, o.HistoricalPnL)
	b.RealGainLoss = pickNum(b.RealGainLoss, o.RealGainLoss)
	b.SessionTrades = pickNum(b.SessionTrades, o.SessionTrades)
	b.TradesWon = pickNum(b.TradesWon, o.TradesWon)
	b.TradesLost = pickNum(b.TradesLost, o.TradesLost)
	b.BiggestWin = pickNum(b.BiggestWin, o.BiggestWin)
	b.MarketPrice = pickNum(b.MarketPrice, o.MarketPrice)
	b.ChangeToday = pickNum(b.ChangeToday, o.ChangeToday)
	b.Change15Min = pickNum(b.Change15Min, o.Change15Min)
	b.Change5Min = pickNum(b.Change5Min, o.Change5Min)
	b.Status = pickStr(b.Status, o.Status)
	b.LastSignal = pickStr(b.LastSignal, o.LastSignal)
	b.NextCandle = pickNum(b.NextCandle, o.NextCandle)
	return b
}

func pickNum(old, next Num) Num {
	if next.Present() {
		return next
	}
	return old
}

func pickStr(old, next Str) Str {
	if next.Present() {
		return next
	}
	return old
}

// Snapshot is the single authoritative state the view is derived from.
type Snapshot struct {
	BotState         BotState
	OpenPositions    []Trade
	HistoricalTrades []Trade
}

// Clone returns a copy whose slices are not shared with s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		BotState:         s.BotState,
		OpenPositions:    cloneTrades(s.OpenPositions),
		HistoricalTrades: cloneTrades(s.HistoricalTrades),
	}
}

func cloneTrades(in []Trade) []Trade {
	if in == nil {
		return nil
	}
	out := make([]Trade, len(in))
	copy(out, in)
	return out
}

// Package render maps a snapshot onto the view document. Every pass
// rewrites every region from the snapshot alone.
package render

import (
	"fmt"
	"strings"

	"github.com/rewired-gh/tradedash/internal/derive"
	"github.com/rewired-gh/tradedash/internal/format"
	"github.com/rewired-gh/tradedash/internal/logger"
	"github.com/rewired-gh/tradedash/internal/models"
	"github.com/rewired-gh/tradedash/internal/view"
)

// Render-time defaults for absent or unusable fields.
const (
	DefaultPortfolio = 35.0
	DefaultCountdown = 300.0

	AwaitingSignal  = "awaiting signal"
	NoSignal        = "-"
	NoTime          = "-"
	NoOpenPositions = "no open positions"
	NoTradeHistory  = "no trade history"
)

// Engine owns the document and redraws it after every render pass.
type Engine struct {
	doc     *view.Document
	drawer  view.Drawer
	skipped map[string]bool
}

// New returns an engine writing into doc. drawer may be nil.
func New(doc *view.Document, drawer view.Drawer) *Engine {
	return &Engine{doc: doc, drawer: drawer, skipped: make(map[string]bool)}
}

// Document returns the document the engine renders into.
func (e *Engine) Document() *view.Document {
	return e.doc
}

// RenderAll redraws every region from s. Regions missing from the document
// are skipped without affecting the rest of the pass.
func (e *Engine) RenderAll(s models.Snapshot) error {
	b := s.BotState

	e.text(view.Portfolio, format.Money(b.Portfolio.Or(DefaultPortfolio)))
	e.signed(view.SessionPnL, b.SessionPnL.Or(0), format.Percent)
	e.signed(view.HistoricalPnL, b.HistoricalPnL.Or(0), format.Percent)
	e.signed(view.RealGain, b.RealGainLoss.Or(0), format.SignedMoney)

	e.text(view.SessionTrades, format.Count(b.SessionTrades.Or(0)))
	won := b.TradesWon.Or(0)
	e.text(view.TradesWon, format.Count(won))
	e.class(view.TradesWon, format.ClassFor(indicator(won > 0, 1)))
	lost := b.TradesLost.Or(0)
	e.text(view.TradesLost, format.Count(lost))
	e.class(view.TradesLost, format.ClassFor(indicator(lost > 0, -1)))
	e.signed(view.BiggestWin, b.BiggestWin.Or(0), format.Money)

	e.text(view.MarketPrice, format.Money(b.MarketPrice.Or(0)))
	e.signed(view.MarketToday, b.ChangeToday.Or(0), format.Percent)
	e.signed(view.Market15Min, b.Change15Min.Or(0), format.Percent)
	e.signed(view.Market5Min, b.Change5Min.Or(0), format.Percent)

	e.text(view.BotStatus, b.Status.Or(AwaitingSignal))
	e.text(view.LastSignal, b.LastSignal.Or(NoSignal))
	e.text(view.NextCandle, format.Countdown(b.NextCandle.Or(DefaultCountdown)))

	e.skip(view.OpenPositions, e.doc.SetTrades(view.OpenPositions, NoOpenPositions, TradeBlocks(s.OpenPositions, true)))
	e.skip(view.TradesHistory, e.doc.SetGroups(view.TradesHistory, NoTradeHistory, DayGroups(s.HistoricalTrades)))

	return e.Redraw()
}

// Redraw hands the document to the drawer without re-deriving it. It is
// used after local edits that bypass the snapshot, like the pause button.
func (e *Engine) Redraw() error {
	if e.drawer == nil {
		return nil
	}
	if err := e.drawer.Draw(e.doc); err != nil {
		return fmt.Errorf("failed to draw view: %w", err)
	}
	return nil
}

// TradeBlocks renders trades; open ones get the in-progress marker instead
// of a close time.
func TradeBlocks(trades []models.Trade, open bool) []view.TradeBlock {
	blocks := make([]view.TradeBlock, 0, len(trades))
	for _, t := range trades {
		blocks = append(blocks, TradeBlock(t, open))
	}
	return blocks
}

// TradeBlock renders one trade. The border depends only on the sign of
// the P&L percentage.
func TradeBlock(t models.Trade, open bool) view.TradeBlock {
	pnlPct := t.PnLPercent.Or(0)
	pnlUSD := t.PnLDollar.Or(0)
	dir := t.Direction()
	class := format.TradeClass(pnlPct)

	tb := view.TradeBlock{
		Direction:  dir,
		Label:      strings.ToUpper(dir),
		Invested:   format.Money(t.Amount.Or(0)),
		PnL:        fmt.Sprintf("%s (%s)", format.Percent(pnlPct), format.SignedMoney(pnlUSD)),
		PnLClass:   class,
		Opened:     t.OpenTime.Or(NoTime),
		InProgress: open,
		Class:      class,
	}
	if !open {
		tb.Closed = t.CloseTime.Or(NoTime)
	}
	return tb
}

// DayGroups renders historical trades grouped by day, latest day first.
func DayGroups(trades []models.Trade) []view.DayGroup {
	groups := derive.GroupByDay(trades)
	out := make([]view.DayGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, view.DayGroup{
			Key:    g.Key,
			Header: format.DayHeader(g.Key),
			Trades: TradeBlocks(g.Trades, false),
		})
	}
	return out
}

func (e *Engine) text(id, text string) {
	e.skip(id, e.doc.SetText(id, text))
}

func (e *Engine) class(id string, c format.Class) {
	e.skip(id, e.doc.SetClass(id, c))
}

func (e *Engine) signed(id string, v float64, f func(float64) string) {
	e.text(id, f(v))
	e.class(id, format.ClassFor(v))
}

// skip logs a missing region once per engine.
func (e *Engine) skip(id string, ok bool) {
	if ok || e.skipped[id] {
		return
	}
	e.skipped[id] = true
	logger.Debug("View has no region %q, skipping its updates", id)
}

func indicator(cond bool, v float64) float64 {
	if cond {
		return v
	}
	return 0
}

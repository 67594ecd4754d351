package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/tradedash/internal/format"
	"github.com/rewired-gh/tradedash/internal/models"
	"github.com/rewired-gh/tradedash/internal/store"
	"github.com/rewired-gh/tradedash/internal/view"
)

type recordingDrawer struct {
	frames []string
	err    error
}

func (d *recordingDrawer) Draw(doc *view.Document) error {
	d.frames = append(d.frames, view.PlainText(doc))
	return d.err
}

func newEngine() (*Engine, *recordingDrawer) {
	d := &recordingDrawer{}
	return New(view.NewDocument(view.DefaultLayout("BTC")), d), d
}

func element(t *testing.T, e *Engine, id string) view.Element {
	t.Helper()
	el, ok := e.Document().Element(id)
	require.True(t, ok, id)
	return el
}

func decode(t *testing.T, payload string) models.Delta {
	t.Helper()
	var d models.Delta
	require.NoError(t, json.Unmarshal([]byte(payload), &d))
	return d
}

func TestRenderAll_Defaults(t *testing.T) {
	e, _ := newEngine()
	require.NoError(t, e.RenderAll(models.Snapshot{}))

	assert.Equal(t, "$35.00", element(t, e, view.Portfolio).Text)
	assert.Equal(t, "5:00", element(t, e, view.NextCandle).Text)
	assert.Equal(t, AwaitingSignal, element(t, e, view.BotStatus).Text)
	assert.Equal(t, NoSignal, element(t, e, view.LastSignal).Text)
	assert.Equal(t, "+0.00%", element(t, e, view.SessionPnL).Text)
	assert.Equal(t, format.Neutral, element(t, e, view.SessionPnL).Class)
	assert.Equal(t, "+$0.00", element(t, e, view.RealGain).Text)
	assert.Equal(t, "0", element(t, e, view.SessionTrades).Text)

	open, _ := e.Document().List(view.OpenPositions)
	assert.Equal(t, NoOpenPositions, open.Placeholder)
	hist, _ := e.Document().List(view.TradesHistory)
	assert.Equal(t, NoTradeHistory, hist.Placeholder)
}

func TestRenderAll_NonNumericFallsBackToDefault(t *testing.T) {
	e, _ := newEngine()
	d := decode(t, `{"bot_state":{"portfolio":"lots","next_candle_countdown":"soon","session_pnl":true,"status":7}}`)
	require.NoError(t, e.RenderAll(models.Snapshot{BotState: d.BotState.Value}))

	assert.Equal(t, "$35.00", element(t, e, view.Portfolio).Text)
	assert.Equal(t, "5:00", element(t, e, view.NextCandle).Text)
	assert.Equal(t, "+0.00%", element(t, e, view.SessionPnL).Text)
	assert.Equal(t, AwaitingSignal, element(t, e, view.BotStatus).Text)
}

func TestRenderAll_Idempotent(t *testing.T) {
	e, d := newEngine()
	snap := models.Snapshot{
		BotState: models.BotState{
			Portfolio:  models.NumOf(41.2),
			SessionPnL: models.NumOf(-1),
			NextCandle: models.NumOf(125),
		},
		OpenPositions: []models.Trade{{Type: models.StrOf("SHORT"), PnLPercent: models.NumOf(-0.4)}},
		HistoricalTrades: []models.Trade{
			{OpenTime: models.StrOf("2024-01-01 09:00"), CloseTime: models.StrOf("2024-01-01 09:30")},
		},
	}

	require.NoError(t, e.RenderAll(snap))
	require.NoError(t, e.RenderAll(snap))
	require.Len(t, d.frames, 2)
	assert.Equal(t, d.frames[0], d.frames[1])

	var a, b bytes.Buffer
	require.NoError(t, view.NewTerminal(&a, false).Draw(e.Document()))
	require.NoError(t, view.NewTerminal(&b, false).Draw(e.Document()))
	assert.Equal(t, a.String(), b.String())
}

func TestRenderAll_SignStyleBoundaries(t *testing.T) {
	tests := []struct {
		v    float64
		want format.Class
	}{
		{0.01, format.Positive},
		{0, format.Neutral},
		{-0.01, format.Negative},
	}
	for _, tt := range tests {
		e, _ := newEngine()
		require.NoError(t, e.RenderAll(models.Snapshot{BotState: models.BotState{
			SessionPnL:    models.NumOf(tt.v),
			HistoricalPnL: models.NumOf(tt.v),
			RealGainLoss:  models.NumOf(tt.v),
			BiggestWin:    models.NumOf(tt.v),
			ChangeToday:   models.NumOf(tt.v),
			Change15Min:   models.NumOf(tt.v),
			Change5Min:    models.NumOf(tt.v),
		}}))
		for _, id := range []string{view.SessionPnL, view.HistoricalPnL, view.RealGain, view.BiggestWin,
			view.MarketToday, view.Market15Min, view.Market5Min} {
			assert.Equal(t, tt.want, element(t, e, id).Class, "%s at %v", id, tt.v)
		}
	}
}

func TestRenderAll_StyleReplacedAcrossRenders(t *testing.T) {
	e, _ := newEngine()
	require.NoError(t, e.RenderAll(models.Snapshot{BotState: models.BotState{SessionPnL: models.NumOf(3)}}))
	assert.Equal(t, format.Positive, element(t, e, view.SessionPnL).Class)

	require.NoError(t, e.RenderAll(models.Snapshot{BotState: models.BotState{SessionPnL: models.NumOf(-3)}}))
	assert.Equal(t, format.Negative, element(t, e, view.SessionPnL).Class)
}

func TestRenderAll_Counters(t *testing.T) {
	e, _ := newEngine()
	require.NoError(t, e.RenderAll(models.Snapshot{BotState: models.BotState{
		SessionTrades: models.NumOf(5),
		TradesWon:     models.NumOf(3),
		TradesLost:    models.NumOf(2),
	}}))
	assert.Equal(t, "5", element(t, e, view.SessionTrades).Text)
	assert.Equal(t, format.Positive, element(t, e, view.TradesWon).Class)
	assert.Equal(t, format.Negative, element(t, e, view.TradesLost).Class)

	require.NoError(t, e.RenderAll(models.Snapshot{}))
	assert.Equal(t, format.Neutral, element(t, e, view.TradesWon).Class)
	assert.Equal(t, format.Neutral, element(t, e, view.TradesLost).Class)
}

func TestRenderAll_NegativeCountdownNotClamped(t *testing.T) {
	e, _ := newEngine()
	require.NoError(t, e.RenderAll(models.Snapshot{BotState: models.BotState{NextCandle: models.NumOf(-5)}}))
	assert.Equal(t, "-1:-5", element(t, e, view.NextCandle).Text)
}

func TestRenderAll_OpenPositionsAndHistory(t *testing.T) {
	e, _ := newEngine()
	require.NoError(t, e.RenderAll(models.Snapshot{
		OpenPositions: []models.Trade{{
			Type:       models.StrOf("LONG"),
			Amount:     models.NumOf(10),
			PnLPercent: models.NumOf(0),
			PnLDollar:  models.NumOf(0),
			OpenTime:   models.StrOf("2024-01-02 10:00:00"),
		}},
		HistoricalTrades: []models.Trade{
			{Type: models.StrOf("SHORT"), PnLPercent: models.NumOf(-1.5), PnLDollar: models.NumOf(-0.15),
				OpenTime: models.StrOf("2024-01-01 09:00"), CloseTime: models.StrOf("2024-01-01 10:00")},
			{PnLPercent: models.NumOf(2), OpenTime: models.StrOf("2024-01-02 10:00")},
		},
	}))

	open, _ := e.Document().List(view.OpenPositions)
	require.Len(t, open.Trades, 1)
	tb := open.Trades[0]
	assert.True(t, tb.InProgress)
	assert.Empty(t, tb.Closed)
	assert.Equal(t, "LONG", tb.Label)
	assert.Equal(t, "$10.00", tb.Invested)
	assert.Equal(t, "+0.00% (+$0.00)", tb.PnL)
	assert.Equal(t, format.Positive, tb.Class)

	hist, _ := e.Document().List(view.TradesHistory)
	require.Len(t, hist.Groups, 2)
	assert.Equal(t, "2024-01-02", hist.Groups[0].Key)
	assert.Equal(t, "Tuesday, January 2, 2024", hist.Groups[0].Header)
	assert.Equal(t, NoTime, hist.Groups[0].Trades[0].Closed)
	assert.Equal(t, "LONG", hist.Groups[0].Trades[0].Label)

	short := hist.Groups[1].Trades[0]
	assert.False(t, short.InProgress)
	assert.Equal(t, "2024-01-01 10:00", short.Closed)
	assert.Equal(t, "-1.50% (-$0.15)", short.PnL)
	assert.Equal(t, format.Negative, short.Class)
}

func TestRenderAll_SessionPnLScenario(t *testing.T) {
	e, _ := newEngine()
	s := store.New("")
	s.Subscribe(func(snap models.Snapshot) { require.NoError(t, e.RenderAll(snap)) })

	s.ApplyDelta(decode(t, `{
		"bot_state": {"portfolio": 40, "historical_pnl": 4, "session_pnl": 1.25, "status": "Running", "next_candle_countdown": 61},
		"open_positions": [{"type": "LONG", "pnl_percent": 0.5}],
		"historical_trades": [{"open_time": "2024-01-01 09:00", "pnl_percent": 1}]
	}`).Full())
	before := e.Document().Lists()

	s.ApplyDelta(decode(t, `{"bot_state":{"session_pnl":-2.5}}`))

	el := element(t, e, view.SessionPnL)
	assert.Equal(t, "-2.50%", el.Text)
	assert.Equal(t, format.Negative, el.Class)

	assert.Equal(t, "$40.00", element(t, e, view.Portfolio).Text)
	assert.Equal(t, "+4.00%", element(t, e, view.HistoricalPnL).Text)
	assert.Equal(t, format.Positive, element(t, e, view.HistoricalPnL).Class)
	assert.Equal(t, "Running", element(t, e, view.BotStatus).Text)
	assert.Equal(t, "1:01", element(t, e, view.NextCandle).Text)
	assert.Equal(t, before, e.Document().Lists())
}

func TestRenderAll_ReplaceModeDropsOmittedFields(t *testing.T) {
	e, _ := newEngine()
	s := store.New(store.MergeReplace)
	s.Subscribe(func(snap models.Snapshot) { require.NoError(t, e.RenderAll(snap)) })

	s.ApplyDelta(decode(t, `{"bot_state":{"portfolio":50,"historical_pnl":4,"status":"Running"}}`))
	s.ApplyDelta(decode(t, `{"bot_state":{"session_pnl":-2.5}}`))

	assert.Equal(t, "-2.50%", element(t, e, view.SessionPnL).Text)
	assert.Equal(t, "$35.00", element(t, e, view.Portfolio).Text)
	assert.Equal(t, "+0.00%", element(t, e, view.HistoricalPnL).Text)
	assert.Equal(t, AwaitingSignal, element(t, e, view.BotStatus).Text)
}

func TestRenderAll_RoundTripFullReplacement(t *testing.T) {
	e, d := newEngine()
	s := store.New(store.MergeReplace)
	s.Subscribe(func(snap models.Snapshot) { require.NoError(t, e.RenderAll(snap)) })

	payload := decode(t, `{"bot_state":{"portfolio":40,"next_candle_countdown":61},"historical_trades":[{"open_time":"2024-01-01 09:00"}]}`).Full()
	s.ApplyDelta(payload)
	snap := s.Snapshot()
	s.ApplyDelta(payload)

	assert.Equal(t, snap, s.Snapshot())
	require.Len(t, d.frames, 2)
	assert.Equal(t, d.frames[0], d.frames[1])
}

func TestRenderAll_MissingRegionsSkipped(t *testing.T) {
	layout := view.Layout{Rows: [][]view.ElementSpec{{{ID: view.Portfolio, Label: "Portfolio"}}}}
	e := New(view.NewDocument(layout), nil)

	require.NoError(t, e.RenderAll(models.Snapshot{BotState: models.BotState{Portfolio: models.NumOf(12)}}))
	el, ok := e.Document().Element(view.Portfolio)
	require.True(t, ok)
	assert.Equal(t, "$12.00", el.Text)
	_, ok = e.Document().List(view.OpenPositions)
	assert.False(t, ok)
}

func TestRenderAll_DrawError(t *testing.T) {
	e, d := newEngine()
	d.err = errors.New("closed pipe")
	assert.Error(t, e.RenderAll(models.Snapshot{}))
}

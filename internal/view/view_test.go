package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/tradedash/internal/format"
)

func TestDocument_MissingTargetsAreSkipped(t *testing.T) {
	doc := NewDocument(Layout{Rows: [][]ElementSpec{{{ID: "a", Label: "A", Bordered: true}}}})

	assert.False(t, doc.SetText("missing", "x"))
	assert.False(t, doc.SetClass("missing", format.Positive))
	assert.False(t, doc.SetTrades("missing", "none", nil))
	assert.False(t, doc.SetGroups("missing", "none", nil))
	assert.False(t, doc.SetButton("missing", "", ""))

	assert.True(t, doc.SetText("a", "1"))
	el, ok := doc.Element("a")
	require.True(t, ok)
	assert.Equal(t, "1", el.Text)
}

func TestDocument_ClassReplacedNotStacked(t *testing.T) {
	doc := NewDocument(DefaultLayout("BTC"))
	doc.SetClass(SessionPnL, format.Positive)
	doc.SetClass(SessionPnL, format.Negative)

	el, _ := doc.Element(SessionPnL)
	assert.Equal(t, format.Negative, el.Class)
}

func TestDocument_PlaceholderSwitch(t *testing.T) {
	doc := NewDocument(DefaultLayout("BTC"))

	doc.SetTrades(OpenPositions, "no open positions", nil)
	l, _ := doc.List(OpenPositions)
	assert.Equal(t, "no open positions", l.Placeholder)

	doc.SetTrades(OpenPositions, "no open positions", []TradeBlock{{Label: "LONG"}})
	l, _ = doc.List(OpenPositions)
	assert.Empty(t, l.Placeholder)
	assert.Len(t, l.Trades, 1)

	doc.SetGroups(TradesHistory, "no trade history", []DayGroup{{Key: "2024-01-01"}})
	doc.SetGroups(TradesHistory, "no trade history", nil)
	l, _ = doc.List(TradesHistory)
	assert.Equal(t, "no trade history", l.Placeholder)
	assert.Nil(t, l.Groups)
}

func TestDocument_AccessorsReturnCopies(t *testing.T) {
	doc := NewDocument(DefaultLayout("ETH"))
	rows := doc.Rows()
	rows[0][0].Text = "changed"

	el, _ := doc.Element(Portfolio)
	assert.Empty(t, el.Text)
	assert.Equal(t, "ETH Price", doc.Rows()[2][0].Label)
	assert.Len(t, doc.Buttons(), 3)
}

func sampleDoc() *Document {
	doc := NewDocument(DefaultLayout("BTC"))
	doc.SetText(Portfolio, "$35.00")
	doc.SetText(SessionPnL, "-2.50%")
	doc.SetClass(SessionPnL, format.Negative)
	doc.SetTrades(OpenPositions, "no open positions", []TradeBlock{{
		Direction: "long", Label: "LONG", Invested: "$10.00", PnL: "+1.00% (+$0.10)",
		PnLClass: format.Positive, Opened: "2024-01-02 10:00", InProgress: true, Class: format.Positive,
	}})
	doc.SetGroups(TradesHistory, "no trade history", nil)
	return doc
}

func TestTerminal_FrameIsDeterministic(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)
	doc := sampleDoc()

	first := term.Frame(doc)
	second := term.Frame(doc)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "$35.00")
	assert.Contains(t, first, "-2.50%")
	assert.Contains(t, first, spinner)
	assert.Contains(t, first, "no trade history")
	assert.Contains(t, first, "[p] ⏸ Pause Bot")
}

func TestTerminal_DrawWritesWholeFrame(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, true)
	doc := sampleDoc()

	require.NoError(t, term.Draw(doc))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, clearScreen))
	assert.True(t, strings.HasSuffix(out, "\n"))

	buf.Reset()
	require.NoError(t, term.Draw(doc))
	assert.Equal(t, out, buf.String())
}

func TestPlainText(t *testing.T) {
	out := PlainText(sampleDoc())
	assert.Contains(t, out, "Portfolio: $35.00\n")
	assert.Contains(t, out, "Session P&L: -2.50% ▼\n")
	assert.Contains(t, out, "  LONG $10.00 | +1.00% (+$0.10) | 2024-01-02 10:00 -> "+spinner+"\n")
	assert.Contains(t, out, "Trade History\n  no trade history\n")
}

package view

import (
	"fmt"
	"strings"

	"github.com/rewired-gh/tradedash/internal/format"
)

// PlainText renders doc as uncoloured text, one region per line.
func PlainText(doc *Document) string {
	var b strings.Builder
	for _, row := range doc.Rows() {
		for _, el := range row {
			fmt.Fprintf(&b, "%s: %s%s\n", el.Label, el.Text, marker(el.Class))
		}
	}
	for _, list := range doc.Lists() {
		fmt.Fprintf(&b, "\n%s\n", list.Title)
		if list.Placeholder != "" {
			fmt.Fprintf(&b, "  %s\n", list.Placeholder)
			continue
		}
		for _, tb := range list.Trades {
			writeTrade(&b, tb, "  ")
		}
		for _, g := range list.Groups {
			fmt.Fprintf(&b, "  %s\n", g.Header)
			for _, tb := range g.Trades {
				writeTrade(&b, tb, "    ")
			}
		}
	}
	return b.String()
}

func writeTrade(b *strings.Builder, tb TradeBlock, indent string) {
	closed := tb.Closed
	if tb.InProgress {
		closed = spinner
	}
	fmt.Fprintf(b, "%s%s %s | %s | %s -> %s\n", indent, tb.Label, tb.Invested, tb.PnL, tb.Opened, closed)
}

func marker(c format.Class) string {
	switch c {
	case format.Positive:
		return " ▲"
	case format.Negative:
		return " ▼"
	default:
		return ""
	}
}

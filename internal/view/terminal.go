package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rewired-gh/tradedash/internal/format"
)

// Drawer turns a document into output.
type Drawer interface {
	Draw(doc *Document) error
}

const (
	colorPositive = lipgloss.Color("#00ff64")
	colorNegative = lipgloss.Color("#ff3232")
	colorNeutral  = lipgloss.Color("#808090")
	colorTitle    = lipgloss.Color("#7C3AED")

	blockWidth = 22
	tradeWidth = 110

	clearScreen = "\x1b[H\x1b[2J"
	spinner     = "⟳ in progress"
)

// Terminal draws full frames with lipgloss. Every Draw writes the whole
// page; nothing depends on the previous frame.
type Terminal struct {
	w     io.Writer
	r     *lipgloss.Renderer
	clear bool
}

// NewTerminal returns a drawer writing to w. With clear set each frame
// starts by clearing the screen.
func NewTerminal(w io.Writer, clear bool) *Terminal {
	return &Terminal{w: w, r: lipgloss.NewRenderer(w), clear: clear}
}

func (t *Terminal) Draw(doc *Document) error {
	var b strings.Builder
	if t.clear {
		b.WriteString(clearScreen)
	}
	b.WriteString(t.Frame(doc))
	b.WriteString("\n")
	_, err := io.WriteString(t.w, b.String())
	return err
}

// Frame renders doc to a string.
func (t *Terminal) Frame(doc *Document) string {
	var sections []string
	for _, row := range doc.Rows() {
		blocks := make([]string, 0, len(row))
		for _, el := range row {
			blocks = append(blocks, t.element(el))
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
	}
	for _, list := range doc.Lists() {
		sections = append(sections, t.list(list))
	}
	sections = append(sections, t.buttons(doc.Buttons()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (t *Terminal) element(el Element) string {
	style := t.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.classColor(el.Class)).
		Padding(0, 1).
		Width(blockWidth)
	label := t.r.NewStyle().Foreground(colorNeutral).Render(el.Label)
	value := t.r.NewStyle().Bold(true).Render(el.Text)
	return style.Render(label + "\n" + value)
}

func (t *Terminal) list(list List) string {
	title := t.r.NewStyle().Bold(true).Foreground(colorTitle).MarginTop(1).Render(list.Title)
	if list.Placeholder != "" {
		return title + "\n" + t.r.NewStyle().Foreground(colorNeutral).Padding(1, 2).Render(list.Placeholder)
	}

	lines := []string{title}
	for _, tb := range list.Trades {
		lines = append(lines, t.trade(tb))
	}
	for _, g := range list.Groups {
		lines = append(lines, t.r.NewStyle().Underline(true).Render(g.Header))
		for _, tb := range g.Trades {
			lines = append(lines, t.trade(tb))
		}
	}
	return strings.Join(lines, "\n")
}

func (t *Terminal) trade(tb TradeBlock) string {
	closed := tb.Closed
	if tb.InProgress {
		closed = spinner
	}
	pnl := t.r.NewStyle().Foreground(t.classColor(tb.PnLClass)).Render(tb.PnL)
	body := fmt.Sprintf("%-6s  Invested %s  P&L %s  Opened %s  Closed %s",
		tb.Label, tb.Invested, pnl, tb.Opened, closed)
	return t.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.classColor(tb.Class)).
		Padding(0, 1).
		Width(tradeWidth).
		Render(body)
}

func (t *Terminal) buttons(buttons []Button) string {
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		parts = append(parts, fmt.Sprintf("[%s] %s %s", b.Key, b.Icon, b.Label))
	}
	return t.r.NewStyle().MarginTop(1).Render(strings.Join(parts, "   "))
}

func (t *Terminal) classColor(c format.Class) lipgloss.TerminalColor {
	switch c {
	case format.Positive:
		return colorPositive
	case format.Negative:
		return colorNegative
	default:
		return colorNeutral
	}
}

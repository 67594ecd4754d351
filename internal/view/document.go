// Package view is a small declarative stand-in for the dashboard page: a
// document of addressable regions that the render engine writes into and
// drawers turn into output.
package view

import "github.com/rewired-gh/tradedash/internal/format"

// Element is a single text region. Bordered elements carry a style class.
type Element struct {
	ID       string
	Label    string
	Text     string
	Bordered bool
	Class    format.Class
}

// TradeBlock is one rendered trade.
type TradeBlock struct {
	Direction  string
	Label      string
	Invested   string
	PnL        string
	PnLClass   format.Class
	Opened     string
	Closed     string
	InProgress bool
	Class      format.Class
}

// DayGroup is a rendered history group.
type DayGroup struct {
	Key    string
	Header string
	Trades []TradeBlock
}

// List is a container region. When Placeholder is set the container shows
// only the placeholder.
type List struct {
	ID          string
	Title       string
	Placeholder string
	Trades      []TradeBlock
	Groups      []DayGroup
}

// Button is an action control with a swappable icon and label.
type Button struct {
	ID    string
	Key   string
	Icon  string
	Label string
}

// Document holds every region of the page, addressable by id.
type Document struct {
	rows     [][]*Element
	elements map[string]*Element
	lists    []*List
	listByID map[string]*List
	buttons  []*Button
	buttonBy map[string]*Button
}

// NewDocument builds an empty document from a layout.
func NewDocument(l Layout) *Document {
	d := &Document{
		elements: make(map[string]*Element),
		listByID: make(map[string]*List),
		buttonBy: make(map[string]*Button),
	}
	for _, row := range l.Rows {
		var els []*Element
		for _, spec := range row {
			el := &Element{ID: spec.ID, Label: spec.Label, Bordered: spec.Bordered}
			d.elements[spec.ID] = el
			els = append(els, el)
		}
		d.rows = append(d.rows, els)
	}
	for _, spec := range l.Lists {
		list := &List{ID: spec.ID, Title: spec.Label}
		d.lists = append(d.lists, list)
		d.listByID[spec.ID] = list
	}
	for _, spec := range l.Buttons {
		b := &Button{ID: spec.ID, Key: spec.Key, Icon: spec.Icon, Label: spec.Label}
		d.buttons = append(d.buttons, b)
		d.buttonBy[spec.ID] = b
	}
	return d
}

// SetText replaces an element's text. It reports false, and does nothing,
// when the document has no such element.
func (d *Document) SetText(id, text string) bool {
	el, ok := d.elements[id]
	if !ok {
		return false
	}
	el.Text = text
	return true
}

// SetClass replaces an element's style class. Missing targets are skipped.
func (d *Document) SetClass(id string, class format.Class) bool {
	el, ok := d.elements[id]
	if !ok {
		return false
	}
	el.Class = class
	return true
}

// SetTrades fills a list with trade blocks, or with placeholder when there
// are none.
func (d *Document) SetTrades(id, placeholder string, trades []TradeBlock) bool {
	list, ok := d.listByID[id]
	if !ok {
		return false
	}
	list.Groups = nil
	if len(trades) == 0 {
		list.Placeholder, list.Trades = placeholder, nil
		return true
	}
	list.Placeholder, list.Trades = "", trades
	return true
}

// SetGroups fills a list with day groups, or with placeholder when there
// are none.
func (d *Document) SetGroups(id, placeholder string, groups []DayGroup) bool {
	list, ok := d.listByID[id]
	if !ok {
		return false
	}
	list.Trades = nil
	if len(groups) == 0 {
		list.Placeholder, list.Groups = placeholder, nil
		return true
	}
	list.Placeholder, list.Groups = "", groups
	return true
}

// SetButton swaps a button's icon and label.
func (d *Document) SetButton(id, icon, label string) bool {
	b, ok := d.buttonBy[id]
	if !ok {
		return false
	}
	b.Icon, b.Label = icon, label
	return true
}

func (d *Document) Element(id string) (Element, bool) {
	el, ok := d.elements[id]
	if !ok {
		return Element{}, false
	}
	return *el, true
}

func (d *Document) List(id string) (List, bool) {
	l, ok := d.listByID[id]
	if !ok {
		return List{}, false
	}
	return *l, true
}

func (d *Document) Button(id string) (Button, bool) {
	b, ok := d.buttonBy[id]
	if !ok {
		return Button{}, false
	}
	return *b, true
}

// Rows returns the element rows in layout order.
func (d *Document) Rows() [][]Element {
	out := make([][]Element, len(d.rows))
	for i, row := range d.rows {
		out[i] = make([]Element, len(row))
		for j, el := range row {
			out[i][j] = *el
		}
	}
	return out
}

// Lists returns the containers in layout order.
func (d *Document) Lists() []List {
	out := make([]List, len(d.lists))
	for i, l := range d.lists {
		out[i] = *l
	}
	return out
}

// Buttons returns the controls in layout order.
func (d *Document) Buttons() []Button {
	out := make([]Button, len(d.buttons))
	for i, b := range d.buttons {
		out[i] = *b
	}
	return out
}

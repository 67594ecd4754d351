// Package derive builds presentation structures from a snapshot without
// touching it.
package derive

import (
	"sort"
	"strings"

	"github.com/rewired-gh/tradedash/internal/models"
)

// NoDate keys the group of trades whose open time is missing or unusable.
const NoDate = "no date"

// DayGroup is the trades opened on one day, in arrival order.
type DayGroup struct {
	Key    string
	Trades []models.Trade
}

// DayKey returns the date part of a trade's open time: everything before
// the first space, or NoDate.
func DayKey(t models.Trade) string {
	open := t.OpenTime.Or("")
	if i := strings.IndexByte(open, ' '); i >= 0 {
		open = open[:i]
	}
	if open == "" {
		return NoDate
	}
	return open
}

// GroupByDay groups trades by DayKey. Keys are sorted in descending lexical
// order, which puts the latest ISO date first but does not understand any
// other date format. Within a group trades keep their input order.
func GroupByDay(trades []models.Trade) []DayGroup {
	if len(trades) == 0 {
		return nil
	}

	index := make(map[string]int)
	var groups []DayGroup
	for _, t := range trades {
		key := DayKey(t)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Key: key})
		}
		groups[i].Trades = append(groups[i].Trades, t)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Key > groups[b].Key
	})
	return groups
}

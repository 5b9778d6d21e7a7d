package types

import (
	"strings"
	"time"
)

// HistoryRange names a look-back window for history and backtest queries.
type HistoryRange string

const (
	Range1h  HistoryRange = "1h"
	Range24h HistoryRange = "24h"
	Range7d  HistoryRange = "7d"
)

// ParseHistoryRange maps the query value to a range. Anything other than
// 24h or 7d (case-insensitive) is 1h.
func ParseHistoryRange(raw string) HistoryRange {
	switch {
	case strings.EqualFold(raw, string(Range24h)):
		return Range24h
	case strings.EqualFold(raw, string(Range7d)):
		return Range7d
	default:
		return Range1h
	}
}

// Duration returns the length of the range.
func (r HistoryRange) Duration() time.Duration {
	switch r {
	case Range24h:
		return 24 * time.Hour
	case Range7d:
		return 7 * 24 * time.Hour
	default:
		return time.Hour
	}
}

// ResolveRange returns the [start, end] window ending at now for a raw range value.
func ResolveRange(raw string, now time.Time) (time.Time, time.Time) {
	return now.Add(-ParseHistoryRange(raw).Duration()), now
}

package common

import (
	"time"
)

// Well-known snapshot field names.
const (
	FieldClose  = "close"
	FieldOpen   = "open"
	FieldVwap   = "vwap"
	FieldAmount = "amount"
)

// Snapshot is the market state of a single simulated timestamp: one value
// series per price/volume field. Snapshots are built once per step and must
// not be mutated afterwards.
type Snapshot struct {
	Close  Series
	Open   Series
	Vwap   Series
	Amount Series

	// Extra holds user-defined fields beyond the named ones.
	Extra map[string]Series
}

// Field resolves a series by name, trying the named fields first and the
// Extra map second. The second return reports whether the field is present.
func (s Snapshot) Field(name string) (Series, bool) {
	switch name {
	case FieldClose:
		return s.Close, s.Close != nil
	case FieldOpen:
		return s.Open, s.Open != nil
	case FieldVwap:
		return s.Vwap, s.Vwap != nil
	case FieldAmount:
		return s.Amount, s.Amount != nil
	default:
		series, ok := s.Extra[name]
		return series, ok
	}
}

// State carries the current and previous snapshot through every operation
// that needs "now". It is constructed once per timestamp by the simulation
// driver; there is no ambient global equivalent.
type State struct {
	Time      time.Time
	PrevTime  time.Time
	Quote     Snapshot
	PrevQuote Snapshot
}

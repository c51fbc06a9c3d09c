package common

import (
	"fmt"
	"time"

	"github.com/quantfold/replay/pkg/utility"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

// LedgerEntry is the end-of-step record for one simulated timestamp.
type LedgerEntry struct {
	Time time.Time `json:"ts"`

	Positions Series `json:"positions,omitempty"`
	Filled    Series `json:"filled,omitempty"`
	Unfilled  Series `json:"unfilled,omitempty"`

	Cash            fixed.Point `json:"cash"`
	RealizableValue fixed.Point `json:"realizable_value"`
	CostValue       fixed.Point `json:"cost_value"`
	MarketValue     fixed.Point `json:"market_value"`
	TransactionCost fixed.Point `json:"transaction_cost"`
	Turnover        fixed.Point `json:"turnover"`
	HoldingCount    int         `json:"holding_count"`

	Source      string              `json:"src,omitempty"`
	ExecutionID utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
}

func (e LedgerEntry) Clone() LedgerEntry {
	clone := e
	clone.Positions = e.Positions.Clone()
	clone.Filled = e.Filled.Clone()
	clone.Unfilled = e.Unfilled.Clone()
	return clone
}

// Nav is the entry's net asset value: cash plus realizable value.
func (e LedgerEntry) Nav() fixed.Point {
	return e.Cash.Add(e.RealizableValue)
}

// Ledger is the append-only, timestamp-keyed audit record of a run. Entries
// are strictly increasing in time and are never overwritten; the simulation
// guarantees exactly one entry per simulated timestamp.
type Ledger struct {
	entries []LedgerEntry
	index   map[int64]int
}

func NewLedger() *Ledger {
	return &Ledger{
		index: make(map[int64]int),
	}
}

func (l *Ledger) Append(entry LedgerEntry) error {
	key := entry.Time.UnixNano()
	if _, ok := l.index[key]; ok {
		return fmt.Errorf("ledger already holds an entry for %s", entry.Time)
	}
	if n := len(l.entries); n > 0 && !entry.Time.After(l.entries[n-1].Time) {
		return fmt.Errorf("ledger entry for %s is not after %s", entry.Time, l.entries[n-1].Time)
	}
	l.index[key] = len(l.entries)
	l.entries = append(l.entries, entry)
	return nil
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

func (l *Ledger) At(t time.Time) (LedgerEntry, bool) {
	idx, ok := l.index[t.UnixNano()]
	if !ok {
		return LedgerEntry{}, false
	}
	return l.entries[idx].Clone(), true
}

func (l *Ledger) Last() (LedgerEntry, bool) {
	if len(l.entries) == 0 {
		return LedgerEntry{}, false
	}
	return l.entries[len(l.entries)-1].Clone(), true
}

// Entries returns the full time-ordered record as deep copies; mutating the
// result does not touch the ledger.
func (l *Ledger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, len(l.entries))
	for i, entry := range l.entries {
		out[i] = entry.Clone()
	}
	return out
}

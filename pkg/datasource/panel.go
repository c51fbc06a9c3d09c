package datasource

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

// ErrDataValidation is returned when the input panel is malformed or
// incomplete. Raised at construction, before any simulation runs.
var ErrDataValidation = errors.New("data panel validation failed")

// Builder accumulates (date, instrument) observations and validates them as
// they arrive. Observations for one instrument must be appended in strictly
// increasing date order.
type Builder struct {
	fields   map[string]struct{}
	rows     map[int64]map[string]common.Series
	dates    map[int64]time.Time
	lastDate map[string]time.Time
}

func NewBuilder() *Builder {
	return &Builder{
		fields:   make(map[string]struct{}),
		rows:     make(map[int64]map[string]common.Series),
		dates:    make(map[int64]time.Time),
		lastDate: make(map[string]time.Time),
	}
}

func (b *Builder) Append(date time.Time, sid string, values map[string]fixed.Point) error {
	if date.IsZero() {
		return fmt.Errorf("%w: zero date for %q", ErrDataValidation, sid)
	}
	if sid == "" {
		return fmt.Errorf("%w: empty instrument id at %s", ErrDataValidation, date)
	}
	if last, ok := b.lastDate[sid]; ok && !date.After(last) {
		return fmt.Errorf("%w: dates for %q are not strictly chronological (%s after %s)",
			ErrDataValidation, sid, date.Format(time.DateOnly), last.Format(time.DateOnly))
	}
	b.lastDate[sid] = date

	key := date.UnixNano()
	b.dates[key] = date
	row, ok := b.rows[key]
	if !ok {
		row = make(map[string]common.Series)
		b.rows[key] = row
	}
	for field, value := range values {
		b.fields[field] = struct{}{}
		series, ok := row[field]
		if !ok {
			series = make(common.Series)
			row[field] = series
		}
		series[sid] = value
	}
	return nil
}

// Build validates the accumulated observations and materialises one snapshot
// per distinct date. A close field is required overall and on every date.
func (b *Builder) Build() (*Panel, error) {
	if len(b.dates) == 0 {
		return nil, fmt.Errorf("%w: panel is empty", ErrDataValidation)
	}
	if _, ok := b.fields[common.FieldClose]; !ok {
		return nil, fmt.Errorf("%w: close is a required field", ErrDataValidation)
	}

	keys := make([]int64, 0, len(b.dates))
	for key := range b.dates {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	panel := &Panel{
		dates: make([]time.Time, 0, len(keys)),
		snaps: make([]common.Snapshot, 0, len(keys)),
	}
	for _, key := range keys {
		row := b.rows[key]
		if _, ok := row[common.FieldClose]; !ok {
			return nil, fmt.Errorf("%w: no close values at %s",
				ErrDataValidation, b.dates[key].Format(time.DateOnly))
		}

		var snap common.Snapshot
		for field, series := range row {
			switch field {
			case common.FieldClose:
				snap.Close = series
			case common.FieldOpen:
				snap.Open = series
			case common.FieldVwap:
				snap.Vwap = series
			case common.FieldAmount:
				snap.Amount = series
			default:
				if snap.Extra == nil {
					snap.Extra = make(map[string]common.Series)
				}
				snap.Extra[field] = series
			}
		}
		panel.dates = append(panel.dates, b.dates[key])
		panel.snaps = append(panel.snaps, snap)
	}
	return panel, nil
}

// Panel is a validated historical data set: sorted distinct dates, one
// snapshot per date. Read-only once built.
type Panel struct {
	dates []time.Time
	snaps []common.Snapshot
}

func (p *Panel) Len() int {
	return len(p.dates)
}

func (p *Panel) DateAt(i int) time.Time {
	return p.dates[i]
}

func (p *Panel) SnapshotAt(i int) common.Snapshot {
	return p.snaps[i]
}

func (p *Panel) Dates() []time.Time {
	out := make([]time.Time, len(p.dates))
	copy(out, p.dates)
	return out
}

package historical

import (
	"errors"
	"fmt"
	"time"

	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/datasource"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

const invalidIndex = -1

// BarReader iterates the records of one instrument's bar file inside a time
// range, locating the first record by binary search.
type BarReader struct {
	source *Source

	sid  string
	from int64
	to   int64
	idx  int64
}

func NewBarReader(source *Source, sid string, from, to time.Time) *BarReader {
	return &BarReader{
		source: source,
		sid:    sid,
		from:   from.UnixNano(),
		to:     to.UnixNano(),
		idx:    invalidIndex,
	}
}

func (r *BarReader) GetNext() (BinaryBar, error) {

	var bar BinaryBar

	if r.idx == invalidIndex {
		if err := r.lookupStartIndex(); err != nil {
			return bar, err
		}
	}

	if err := r.source.Read(r.idx, &bar); err != nil {
		return bar, fmt.Errorf("error reading entry at index %d: %w", r.idx, err)
	}
	r.idx++

	if bar.TimeStamp < r.from {
		return bar, fmt.Errorf("timestamp is not from the proposed range")
	}
	if bar.TimeStamp > r.to {
		return bar, ErrEof
	}

	return bar, nil
}

func (r *BarReader) lookupStartIndex() error {
	entryCount, err := r.source.EntryCount()
	if err != nil {
		return fmt.Errorf("error getting entry count: %w", err)
	}
	if entryCount == 0 {
		return fmt.Errorf("entry count is zero")
	}

	var entry BinaryBar

	low := int64(0)
	high := entryCount - 1

	for low <= high {
		mid := (low + high) / 2

		if err := r.source.Read(mid, &entry); err != nil {
			return fmt.Errorf("error reading entry at index %d: %w", mid, err)
		}

		if entry.TimeStamp < r.from {
			low = mid + 1
		} else {
			high = mid - 1
		}
	}

	if low >= entryCount {
		return fmt.Errorf("no entry found with timestamp >= from")
	}

	r.idx = low
	return nil
}

// LoadInto drains the reader into a panel builder, one observation per bar.
func (r *BarReader) LoadInto(builder *datasource.Builder) error {
	for {
		bar, err := r.GetNext()
		if err != nil {
			if errors.Is(err, ErrEof) {
				return nil
			}
			return err
		}
		values := map[string]fixed.Point{
			common.FieldClose: fixed.FromFloat64(bar.Close),
		}
		if bar.Open != 0 {
			values[common.FieldOpen] = fixed.FromFloat64(bar.Open)
		}
		if bar.Vwap != 0 {
			values[common.FieldVwap] = fixed.FromFloat64(bar.Vwap)
		}
		if bar.Amount != 0 {
			values[common.FieldAmount] = fixed.FromFloat64(bar.Amount)
		}
		if err := builder.Append(time.Unix(0, bar.TimeStamp).UTC(), r.sid, values); err != nil {
			return err
		}
	}
}

package datasource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

func date(d int) time.Time {
	return time.Date(2020, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestDatasourceBuilder_Build(t *testing.T) {
	b := NewBuilder()

	require.NoError(t, b.Append(date(2), "000001", map[string]fixed.Point{
		common.FieldClose: fixed.FromInt(10, 0),
		common.FieldVwap:  fixed.FromInt(10, 0),
		"pe_ratio":        fixed.FromInt(15, 0),
	}))
	require.NoError(t, b.Append(date(2), "000002", map[string]fixed.Point{
		common.FieldClose: fixed.FromInt(20, 0),
	}))
	require.NoError(t, b.Append(date(3), "000001", map[string]fixed.Point{
		common.FieldClose: fixed.FromInt(11, 0),
	}))

	panel, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 2, panel.Len())
	assert.Equal(t, date(2), panel.DateAt(0))
	assert.Equal(t, date(3), panel.DateAt(1))

	snap := panel.SnapshotAt(0)
	assert.Equal(t, "10", snap.Close.Get("000001").Rescale(0).String())
	assert.Equal(t, "20", snap.Close.Get("000002").Rescale(0).String())

	// Unnamed fields land in Extra and stay reachable through Field.
	extra, ok := snap.Field("pe_ratio")
	require.True(t, ok)
	assert.Equal(t, "15", extra.Get("000001").Rescale(0).String())
}

func TestDatasourceBuilder_DatesAreSorted(t *testing.T) {
	b := NewBuilder()

	// Different instruments may arrive interleaved across dates.
	require.NoError(t, b.Append(date(5), "000001", map[string]fixed.Point{
		common.FieldClose: fixed.FromInt(1, 0),
	}))
	require.NoError(t, b.Append(date(2), "000002", map[string]fixed.Point{
		common.FieldClose: fixed.FromInt(1, 0),
	}))
	require.NoError(t, b.Append(date(4), "000002", map[string]fixed.Point{
		common.FieldClose: fixed.FromInt(1, 0),
	}))

	panel, err := b.Build()
	require.NoError(t, err)

	dates := panel.Dates()
	require.Len(t, dates, 3)
	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i].After(dates[i-1]))
	}
}

func TestDatasourceBuilder_NonChronologicalInstrument(t *testing.T) {
	b := NewBuilder()

	require.NoError(t, b.Append(date(3), "000001", map[string]fixed.Point{
		common.FieldClose: fixed.FromInt(1, 0),
	}))
	err := b.Append(date(2), "000001", map[string]fixed.Point{
		common.FieldClose: fixed.FromInt(1, 0),
	})
	assert.ErrorIs(t, err, ErrDataValidation)
}

func TestDatasourceBuilder_Validation(t *testing.T) {
	t.Run("zero date", func(t *testing.T) {
		b := NewBuilder()
		err := b.Append(time.Time{}, "000001", map[string]fixed.Point{
			common.FieldClose: fixed.One,
		})
		assert.ErrorIs(t, err, ErrDataValidation)
	})

	t.Run("empty sid", func(t *testing.T) {
		b := NewBuilder()
		err := b.Append(date(2), "", map[string]fixed.Point{
			common.FieldClose: fixed.One,
		})
		assert.ErrorIs(t, err, ErrDataValidation)
	})

	t.Run("empty panel", func(t *testing.T) {
		b := NewBuilder()
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrDataValidation)
	})

	t.Run("missing close field", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.Append(date(2), "000001", map[string]fixed.Point{
			common.FieldVwap: fixed.One,
		}))
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrDataValidation)
	})

	t.Run("date without close values", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.Append(date(2), "000001", map[string]fixed.Point{
			common.FieldClose: fixed.One,
		}))
		require.NoError(t, b.Append(date(3), "000001", map[string]fixed.Point{
			common.FieldVwap: fixed.One,
		}))
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrDataValidation)
	})
}

package broker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/replay/pkg/bus"
	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

func testState(d int, vwap, amount common.Series) common.State {
	return common.State{
		Time: time.Date(2020, 3, d, 0, 0, 0, 0, time.UTC),
		Quote: common.Snapshot{
			Close:  vwap,
			Vwap:   vwap,
			Amount: amount,
		},
	}
}

func TestBroker_OnQuoteFillsActiveOrders(t *testing.T) {
	router := bus.NewRouter()
	b := New(router, fixed.FromInt(100_000, 0))
	ctx := context.Background()

	order := common.NewOrder(common.Series{"000001": fixed.FromInt(100, 0)},
		time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC))
	b.PlaceOrder(ctx, order)
	require.Len(t, b.ActiveOrders(), 1)

	state := testState(3, common.Series{"000001": fixed.FromInt(10, 0)}, nil)
	require.NoError(t, b.OnQuote(ctx, state))

	// Fully matched orders leave the active queue.
	assert.Empty(t, b.ActiveOrders())
	assert.Len(t, b.FilledToday(), 1)
	assert.Equal(t, "100", b.Portfolio().Positions().Get("000001").Rescale(0).String())
}

func TestBroker_PartialFillLeavesQueue(t *testing.T) {
	router := bus.NewRouter()
	b := New(router, fixed.FromInt(100_000, 0))
	ctx := context.Background()

	order := common.NewOrder(common.Series{"000001": fixed.FromInt(100, 0)},
		time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC))
	b.PlaceOrder(ctx, order)

	state := testState(3,
		common.Series{"000001": fixed.FromInt(10, 0)},
		common.Series{"000001": fixed.FromInt(1000, 0)})
	require.NoError(t, b.OnQuote(ctx, state))

	// The matched part is booked, the remainder is reported, and the order
	// does not linger for the next step.
	assert.Empty(t, b.ActiveOrders())
	unfilled := b.UnfilledToday()
	require.Len(t, unfilled, 1)
	assert.Equal(t, "96", unfilled[0].Get("000001").Rescale(0).String())
}

func TestBroker_OnQuoteMarksToMarketWithoutOrders(t *testing.T) {
	router := bus.NewRouter()
	b := New(router, fixed.FromInt(100_000, 0))
	ctx := context.Background()

	b.PlaceOrder(ctx, common.NewOrder(common.Series{"000001": fixed.FromInt(100, 0)},
		time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, b.OnQuote(ctx, testState(3, common.Series{"000001": fixed.FromInt(10, 0)}, nil)))
	valueBefore := b.Portfolio().RealizableValue()

	// No active orders, prices double: valuation must follow.
	require.NoError(t, b.OnQuote(ctx, testState(4, common.Series{"000001": fixed.FromInt(20, 0)}, nil)))
	assert.True(t, b.Portfolio().RealizableValue().Gt(valueBefore))
}

func TestBroker_CancelAll(t *testing.T) {
	router := bus.NewRouter()
	b := New(router, fixed.FromInt(100_000, 0))
	ctx := context.Background()

	b.PlaceOrder(ctx, common.NewOrder(common.Series{"000001": fixed.FromInt(100, 0)},
		time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)))
	b.PlaceOrder(ctx, common.NewOrder(common.Series{"000002": fixed.FromInt(50, 0)},
		time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)))

	b.CancelAll()

	assert.Empty(t, b.ActiveOrders())
	// Placed history survives cancellation.
	assert.Len(t, b.PlacedOrders(time.Time{}), 2)
}

func TestBroker_PostDayWritesOneEntryPerStep(t *testing.T) {
	router := bus.NewRouter()
	b := New(router, fixed.FromInt(100_000, 0))
	ctx := context.Background()

	vwap := common.Series{"000001": fixed.FromInt(10, 0)}
	for d := 2; d <= 6; d++ {
		state := testState(d, vwap, nil)
		require.NoError(t, b.OnQuote(ctx, state))
		require.NoError(t, b.PostDay(ctx, state))
	}

	// One entry per timestamp, trades or not.
	assert.Equal(t, 5, b.Ledger().Len())

	entry, ok := b.Ledger().At(time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.True(t, entry.Turnover.IsZero())
	assert.True(t, entry.TransactionCost.IsZero())
	assert.Equal(t, "100000", entry.Cash.Rescale(0).String())
}

func TestBroker_PostDayAggregatesFills(t *testing.T) {
	router := bus.NewRouter()
	b := New(router, fixed.FromInt(100_000, 0))
	ctx := context.Background()

	b.PlaceOrder(ctx, common.NewOrder(common.Series{"000001": fixed.FromInt(100, 0)},
		time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)))
	b.PlaceOrder(ctx, common.NewOrder(common.Series{"000001": fixed.FromInt(50, 0)},
		time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)))

	state := testState(3, common.Series{"000001": fixed.FromInt(10, 0)}, nil)
	require.NoError(t, b.OnQuote(ctx, state))
	require.NoError(t, b.PostDay(ctx, state))

	entry, ok := b.Ledger().Last()
	require.True(t, ok)
	assert.Equal(t, "150", entry.Filled.Get("000001").Rescale(0).String())
	assert.False(t, entry.Turnover.IsZero())

	// Buffers reset after the day closes.
	assert.Empty(t, b.FilledToday())
	assert.Empty(t, b.UnfilledToday())
}

func TestBroker_PostDayDuplicateTimestamp(t *testing.T) {
	router := bus.NewRouter()
	b := New(router, fixed.FromInt(100_000, 0))
	ctx := context.Background()

	state := testState(3, common.Series{"000001": fixed.FromInt(10, 0)}, nil)
	require.NoError(t, b.PostDay(ctx, state))
	assert.Error(t, b.PostDay(ctx, state))
}

func TestBroker_NegativeCashPostsAnomaly(t *testing.T) {
	router := bus.NewRouter()
	var anomalies []common.Anomaly
	router.AnomalyHandler = func(ctx context.Context, anomaly common.Anomaly) {
		anomalies = append(anomalies, anomaly)
	}

	b := New(router, fixed.FromInt(100, 0))
	ctx := context.Background()

	b.PlaceOrder(ctx, common.NewOrder(common.Series{"000001": fixed.FromInt(100, 0)},
		time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)))

	state := testState(3, common.Series{"000001": fixed.FromInt(10, 0)}, nil)
	require.NoError(t, b.OnQuote(ctx, state))

	require.Len(t, anomalies, 1)
	assert.Equal(t, common.AnomalyNegativeCash, anomalies[0].Kind)
	assert.Equal(t, -1, anomalies[0].Cash.Sign())
}

func TestBroker_AccessorsReturnCopies(t *testing.T) {
	router := bus.NewRouter()
	b := New(router, fixed.FromInt(100_000, 0))
	ctx := context.Background()

	b.PlaceOrder(ctx, common.NewOrder(common.Series{"000001": fixed.FromInt(100, 0)},
		time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)))

	active := b.ActiveOrders()
	require.Len(t, active, 1)
	active[0].Quantity["000001"] = fixed.Zero

	fresh := b.ActiveOrders()
	assert.Equal(t, "100", fresh[0].Quantity.Get("000001").Rescale(0).String())
}

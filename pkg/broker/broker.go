package broker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quantfold/replay/pkg/bus"
	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/utility"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

const brokerComponentName = "broker"

// Broker owns the portfolio, the queue of active orders and the run ledger.
// It matches active orders against each step's snapshot and records the
// day's accounting at end of step.
type Broker struct {
	router    *bus.Router
	params    Params
	portfolio *Portfolio
	ledger    *common.Ledger

	activeOrders []*common.Order

	// Per-step transient buffers, valid until PostDay resets them.
	filledToday   []*common.Order
	unfilledToday []common.Series

	placedOrders []*common.Order
}

func New(router *bus.Router, initCash fixed.Point, options ...Option) *Broker {
	params := DefaultParams()
	for _, option := range options {
		option(&params)
	}
	return &Broker{
		router:    router,
		params:    params,
		portfolio: NewPortfolio(initCash),
		ledger:    common.NewLedger(),
	}
}

func (b *Broker) Params() Params {
	return b.params
}

func (b *Broker) Portfolio() *Portfolio {
	return b.portfolio
}

func (b *Broker) Ledger() *common.Ledger {
	return b.ledger
}

// PlaceOrder appends the order to the active queue. Liquidity and cash are
// checked at fill time, not here.
func (b *Broker) PlaceOrder(ctx context.Context, order *common.Order) {
	order.Source = brokerComponentName
	b.activeOrders = append(b.activeOrders, order)
	b.placedOrders = append(b.placedOrders, order)

	if err := b.router.Post(ctx, bus.OrderPlacedEvent, *order.Clone()); err != nil {
		slog.Warn("unable to post order placed event", "error", err)
	}
}

// CancelAll clears the active-order queue unconditionally. Used before a
// rebalance to void stale, unmatched orders.
func (b *Broker) CancelAll() {
	b.activeOrders = nil
}

// OnQuote matches every active order against the step's snapshot and applies
// each result to the portfolio immediately. All orders are matched against
// the same immutable snapshot; the active set is recomputed once, after the
// full pass. The portfolio is marked to market afterwards whether or not any
// order was active, so valuations track price drift.
func (b *Broker) OnQuote(ctx context.Context, state common.State) error {
	if len(b.activeOrders) > 0 {
		for _, order := range b.activeOrders {
			remainder, err := Fill(order, state.Quote, b.params)
			if err != nil {
				return fmt.Errorf("matching order created at %s: %w", order.CreatedAt, err)
			}
			b.applyFill(ctx, state, order, remainder)
		}

		active := make([]*common.Order, 0, len(b.activeOrders))
		for _, order := range b.activeOrders {
			if order.Status == common.OrderStatusUnfilled {
				active = append(active, order)
			}
		}
		b.activeOrders = active
	}

	return b.portfolio.MarkToMarket(state.Quote, b.params.BenchmarkField)
}

func (b *Broker) applyFill(ctx context.Context, state common.State, order *common.Order, remainder common.Series) {
	b.portfolio.ApplyOrder(order)
	if b.portfolio.Cash().Sign() < 0 {
		if err := b.router.Post(ctx, bus.AnomalyEvent, common.Anomaly{
			Kind:        common.AnomalyNegativeCash,
			Message:     "cash balance is negative after fill",
			Cash:        b.portfolio.Cash(),
			Source:      brokerComponentName,
			ExecutionID: utility.GetExecutionID(),
			TraceID:     utility.CreateTraceID(),
			TimeStamp:   state.Time,
		}); err != nil {
			slog.Warn("unable to post anomaly event", "error", err)
		}
	}

	b.filledToday = append(b.filledToday, order)
	if err := b.router.Post(ctx, bus.OrderFilledEvent, *order.Clone()); err != nil {
		slog.Warn("unable to post order filled event", "error", err)
	}

	if len(remainder) > 0 {
		b.unfilledToday = append(b.unfilledToday, remainder)
		if err := b.router.Post(ctx, bus.OrderUnfilledEvent, common.OrderUnfilled{
			Remainder:   remainder.Clone(),
			Source:      brokerComponentName,
			ExecutionID: utility.GetExecutionID(),
			TraceID:     order.TraceID,
			TimeStamp:   state.Time,
		}); err != nil {
			slog.Warn("unable to post order unfilled event", "error", err)
		}
	}
}

// PostDay aggregates the step's fills into one ledger entry keyed by the
// step's timestamp and resets the transient buffers. The entry is written
// even on no-trade days so the ledger holds exactly one entry per simulated
// timestamp.
func (b *Broker) PostDay(ctx context.Context, state common.State) error {
	entry := common.LedgerEntry{
		Time:            state.Time,
		Positions:       b.portfolio.Positions(),
		Cash:            b.portfolio.Cash(),
		RealizableValue: b.portfolio.RealizableValue(),
		CostValue:       b.portfolio.CostValue(),
		MarketValue:     b.portfolio.MarketValue(),
		TransactionCost: fixed.Zero,
		Turnover:        fixed.Zero,
		HoldingCount:    b.portfolio.HoldingCount(),
		Source:          brokerComponentName,
		ExecutionID:     utility.GetExecutionID(),
		TraceID:         utility.CreateTraceID(),
	}

	if len(b.filledToday) > 0 {
		filled := make(common.Series)
		for _, order := range b.filledToday {
			filled = filled.Add(order.FilledQuantity)
			entry.TransactionCost = entry.TransactionCost.Add(order.TransactionCost)
			entry.Turnover = entry.Turnover.Add(order.AbsTransactionAmount)
		}
		entry.Filled = filled
	}

	if len(b.unfilledToday) > 0 {
		unfilled := make(common.Series)
		for _, remainder := range b.unfilledToday {
			unfilled = unfilled.Add(remainder)
		}
		entry.Unfilled = unfilled
	}

	if err := b.ledger.Append(entry); err != nil {
		return fmt.Errorf("recording day %s: %w", state.Time, err)
	}
	if err := b.router.Post(ctx, bus.LedgerEvent, entry.Clone()); err != nil {
		slog.Warn("unable to post ledger event", "error", err)
	}

	b.filledToday = nil
	b.unfilledToday = nil
	return nil
}

// ActiveOrders returns deep copies of the orders waiting to be matched.
func (b *Broker) ActiveOrders() []*common.Order {
	out := make([]*common.Order, len(b.activeOrders))
	for i, order := range b.activeOrders {
		out[i] = order.Clone()
	}
	return out
}

// FilledToday returns deep copies of the orders matched since the last
// PostDay.
func (b *Broker) FilledToday() []*common.Order {
	out := make([]*common.Order, len(b.filledToday))
	for i, order := range b.filledToday {
		out[i] = order.Clone()
	}
	return out
}

// UnfilledToday returns deep copies of the remainders left unmatched since
// the last PostDay.
func (b *Broker) UnfilledToday() []common.Series {
	out := make([]common.Series, len(b.unfilledToday))
	for i, remainder := range b.unfilledToday {
		out[i] = remainder.Clone()
	}
	return out
}

// PlacedOrders returns deep copies of every order placed during the run,
// optionally restricted to orders created at the given time.
func (b *Broker) PlacedOrders(at time.Time) []*common.Order {
	var out []*common.Order
	for _, order := range b.placedOrders {
		if at.IsZero() || order.CreatedAt.Equal(at) {
			out = append(out, order.Clone())
		}
	}
	return out
}

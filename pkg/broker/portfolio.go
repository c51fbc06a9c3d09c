package broker

import (
	"fmt"
	"log/slog"

	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

// Portfolio holds the cash balance and per-instrument position quantities of
// a run. It is owned exclusively by the Broker and mutated only through
// ApplyOrder (trade flow) and MarkToMarket (price flow).
type Portfolio struct {
	cash      fixed.Point
	positions common.Series

	realizableValue fixed.Point
	marketValue     fixed.Point
	costValue       fixed.Point
}

func NewPortfolio(initCash fixed.Point) *Portfolio {
	return &Portfolio{
		cash:      initCash,
		positions: make(common.Series),
	}
}

// ApplyOrder folds a filled order into positions, cost basis and cash. A
// non-filled order is logged and ignored, not applied. Negative cash after
// the update is logged as a warning and passes through: over-spending is
// left inspectable rather than turned into a hard stop.
func (p *Portfolio) ApplyOrder(order *common.Order) bool {
	if order.Status != common.OrderStatusFilled {
		slog.Error("order not applied, not in filled state",
			"status", order.Status, "created_at", order.CreatedAt)
		return false
	}
	p.positions = p.positions.Add(order.FilledQuantity)
	p.costValue = p.costValue.Add(order.TransactionAmount)
	p.cash = p.cash.Sub(order.TransactionAmount).Sub(order.TransactionCost)
	if p.cash.Sign() < 0 {
		slog.Warn("cash balance is negative", "cash", p.cash, "created_at", order.CreatedAt)
	}
	return true
}

// MarkToMarket recomputes realizable and market value from current positions
// and the benchmark price series. Positions are untouched.
func (p *Portfolio) MarkToMarket(quote common.Snapshot, benchmarkField string) error {
	price, ok := quote.Field(benchmarkField)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPriceField, benchmarkField)
	}
	positionValue := p.positions.MulSeries(price)
	p.marketValue = positionValue.AbsSum()
	p.realizableValue = positionValue.Sum()
	return nil
}

func (p *Portfolio) Cash() fixed.Point            { return p.cash }
func (p *Portfolio) RealizableValue() fixed.Point { return p.realizableValue }
func (p *Portfolio) MarketValue() fixed.Point     { return p.marketValue }
func (p *Portfolio) CostValue() fixed.Point       { return p.costValue }

// TotalValue is cash plus realizable value.
func (p *Portfolio) TotalValue() fixed.Point {
	return p.cash.Add(p.realizableValue)
}

func (p *Portfolio) Positions() common.Series {
	return p.positions.Clone()
}

func (p *Portfolio) HoldingCount() int {
	return len(p.positions.NonZero())
}

package broker

import (
	"errors"
	"fmt"

	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

var (
	// ErrInvalidPriceField is returned when the configured fill or benchmark
	// field is absent from the snapshot. Fatal for the match attempt; there
	// is no fallback to another field.
	ErrInvalidPriceField = errors.New("price field not present in snapshot")
	// ErrInvalidOrderState is returned when matching an order that is not in
	// the unfilled state. It signals a broker usage bug, not a market
	// condition.
	ErrInvalidOrderState = errors.New("order is not in unfilled state")
)

// Fill matches one order against one snapshot and returns the unfilled
// remainder, restricted to non-zero entries.
//
//  1. Select the configured price field; instruments without a strictly
//     positive price are fully rejected.
//  2. Settle at price adjusted by signed slippage: buying pays up, selling
//     receives less.
//  3. When the snapshot carries a traded-amount field, cap the executable
//     quantity at floor(amount * maxTradingPercentage / filledPrice),
//     preserving the trade direction.
//  4. Charge commission on the absolute transaction amount plus the sell
//     tax on the sell side.
//
// The order transitions unfilled -> filled exactly once; a second call fails
// with ErrInvalidOrderState.
func Fill(order *common.Order, quote common.Snapshot, params Params) (common.Series, error) {
	price, ok := quote.Field(params.FillField)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriceField, params.FillField)
	}
	if order.Status != common.OrderStatusUnfilled {
		return nil, fmt.Errorf("%w: order created at %s is %q",
			ErrInvalidOrderState, order.CreatedAt.Format("2006-01-02"), order.Status)
	}
	order.Price = price.Clone()

	filledQuantity := make(common.Series, len(order.Quantity))
	filledPrice := make(common.Series, len(order.Quantity))
	for sid, quantity := range order.Quantity {
		p := price.Get(sid)
		if p.Sign() <= 0 {
			// Non-tradable: zero or missing price rejects the whole leg.
			filledQuantity[sid] = fixed.Zero
			continue
		}
		slipped := p.Add(p.Mul(params.Slippage.Mul(quantity.SignPoint())))
		filledPrice[sid] = slipped
		filledQuantity[sid] = quantity
	}

	if amount, hasAmount := quote.Field(common.FieldAmount); hasAmount {
		for sid, quantity := range filledQuantity {
			if quantity.IsZero() {
				continue
			}
			traded, present := amount[sid]
			if !present {
				continue
			}
			maxShares := traded.Mul(params.MaxTradingPercentage).Div(filledPrice.Get(sid)).Floor()
			if quantity.Abs().Gt(maxShares) {
				filledQuantity[sid] = maxShares.Mul(quantity.SignPoint())
			}
		}
	}

	transaction := filledPrice.MulSeries(filledQuantity)
	sellLeg := fixed.Zero
	for _, v := range transaction {
		if v.Sign() < 0 {
			sellLeg = sellLeg.Add(v)
		}
	}

	order.AbsTransactionAmount = transaction.AbsSum()
	order.TransactionAmount = transaction.Sum()
	order.TransactionCost = order.AbsTransactionAmount.Mul(params.Commission).
		Sub(sellLeg.Mul(params.SellTax))

	remainder := order.Quantity.Sub(filledQuantity).NonZero()
	order.FilledQuantity = filledQuantity.NonZero()
	order.FilledPrice = filledPrice
	order.Status = common.OrderStatusFilled

	return remainder, nil
}

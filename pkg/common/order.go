package common

import (
	"time"

	"github.com/quantfold/replay/pkg/utility"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

type OrderStatus string

const (
	OrderStatusUnfilled OrderStatus = "unfilled"
	OrderStatusFilled   OrderStatus = "filled"
)

// Order describes the trade quantities a strategy wants executed at one
// timestamp. Matching mutates it exactly once: unfilled -> filled. A filled
// order is never re-matched.
type Order struct {
	Quantity       Series      `json:"quantity"`
	Price          Series      `json:"price,omitempty"`
	FilledQuantity Series      `json:"filled_quantity,omitempty"`
	FilledPrice    Series      `json:"filled_price,omitempty"`
	Status         OrderStatus `json:"status"`

	// TransactionAmount is signed: positive means cash spent buying.
	TransactionAmount    fixed.Point `json:"transaction_amount"`
	AbsTransactionAmount fixed.Point `json:"abs_transaction_amount"`
	TransactionCost      fixed.Point `json:"transaction_cost"`

	Source      string              `json:"src,omitempty"`
	ExecutionID utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func NewOrder(quantity Series, createdAt time.Time) *Order {
	return &Order{
		Quantity:    quantity.Clone(),
		Status:      OrderStatusUnfilled,
		ExecutionID: utility.GetExecutionID(),
		TraceID:     utility.CreateTraceID(),
		CreatedAt:   createdAt,
	}
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Quantity = o.Quantity.Clone()
	clone.Price = o.Price.Clone()
	clone.FilledQuantity = o.FilledQuantity.Clone()
	clone.FilledPrice = o.FilledPrice.Clone()
	return &clone
}

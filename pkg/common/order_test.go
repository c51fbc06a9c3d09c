package common

import (
	"testing"
	"time"

	"github.com/quantfold/replay/pkg/utility/fixed"
)

func TestOrder_New(t *testing.T) {
	createdAt := time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)
	quantity := Series{"000001": fixed.FromInt(100, 0)}

	order := NewOrder(quantity, createdAt)

	if order.Status != OrderStatusUnfilled {
		t.Errorf("Status = %q, want unfilled", order.Status)
	}
	if !order.CreatedAt.Equal(createdAt) {
		t.Errorf("CreatedAt = %v, want %v", order.CreatedAt, createdAt)
	}
	if order.TraceID == 0 {
		t.Error("TraceID should be assigned")
	}

	// The order must own its quantities.
	quantity["000001"] = fixed.Zero
	if !order.Quantity.Get("000001").Eq(fixed.FromInt(100, 0)) {
		t.Error("mutating the input series changed the order")
	}
}

func TestOrder_Clone(t *testing.T) {
	order := NewOrder(Series{"000001": fixed.FromInt(100, 0)},
		time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC))
	order.FilledQuantity = Series{"000001": fixed.FromInt(40, 0)}

	clone := order.Clone()
	clone.Quantity["000001"] = fixed.Zero
	clone.FilledQuantity["000001"] = fixed.Zero
	clone.Status = OrderStatusFilled

	if !order.Quantity.Get("000001").Eq(fixed.FromInt(100, 0)) {
		t.Error("mutating the clone changed the original quantity")
	}
	if !order.FilledQuantity.Get("000001").Eq(fixed.FromInt(40, 0)) {
		t.Error("mutating the clone changed the original filled quantity")
	}
	if order.Status != OrderStatusUnfilled {
		t.Error("mutating the clone changed the original status")
	}

	var nilOrder *Order
	if nilOrder.Clone() != nil {
		t.Error("cloning a nil order should return nil")
	}
}

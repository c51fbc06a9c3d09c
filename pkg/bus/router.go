package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quantfold/replay/pkg/common"
)

// Router dispatches simulation events to the configured handlers. Dispatch is
// synchronous on the caller's goroutine: the replay loop requires every
// effect of timestamp t to be observable before t+1 starts, so there is no
// event queue to drain.
type Router struct {
	SnapshotHandler      SnapshotEventHandler
	OrderPlacedHandler   OrderPlacedEventHandler
	OrderFilledHandler   OrderFilledEventHandler
	OrderUnfilledHandler OrderUnfilledEventHandler
	LedgerHandler        LedgerEventHandler
	AnomalyHandler       AnomalyEventHandler

	dispatchCount uint64
	dispatchFails uint64
}

func NewRouter() *Router {
	return &Router{}
}

func (r *Router) Post(ctx context.Context, id EventId, data interface{}) error {
	r.dispatchCount++
	if err := r.dispatch(ctx, id, data); err != nil {
		r.dispatchFails++
		return err
	}
	return nil
}

func (r *Router) PrintStatistics() {
	slog.Info("router statistics",
		"dispatch_count", r.dispatchCount,
		"dispatch_fails", r.dispatchFails)
}

func (r *Router) dispatch(ctx context.Context, id EventId, data interface{}) error {
	switch id {
	case SnapshotEvent:
		state, ok := data.(common.State)
		if !ok {
			return errors.New("invalid type assertion for snapshot event")
		}
		if r.SnapshotHandler != nil {
			r.SnapshotHandler(ctx, state)
		} else {
			slog.Debug("snapshot handler is nil")
		}
	case OrderPlacedEvent:
		order, ok := data.(common.Order)
		if !ok {
			return errors.New("invalid type assertion for order placed event")
		}
		if r.OrderPlacedHandler != nil {
			r.OrderPlacedHandler(ctx, order)
		} else {
			slog.Debug("order placed handler is nil")
		}
	case OrderFilledEvent:
		order, ok := data.(common.Order)
		if !ok {
			return errors.New("invalid type assertion for order filled event")
		}
		if r.OrderFilledHandler != nil {
			r.OrderFilledHandler(ctx, order)
		} else {
			slog.Debug("order filled handler is nil")
		}
	case OrderUnfilledEvent:
		unfilled, ok := data.(common.OrderUnfilled)
		if !ok {
			return errors.New("invalid type assertion for order unfilled event")
		}
		if r.OrderUnfilledHandler != nil {
			r.OrderUnfilledHandler(ctx, unfilled)
		} else {
			slog.Debug("order unfilled handler is nil")
		}
	case LedgerEvent:
		entry, ok := data.(common.LedgerEntry)
		if !ok {
			return errors.New("invalid type assertion for ledger event")
		}
		if r.LedgerHandler != nil {
			r.LedgerHandler(ctx, entry)
		} else {
			slog.Debug("ledger handler is nil")
		}
	case AnomalyEvent:
		anomaly, ok := data.(common.Anomaly)
		if !ok {
			return errors.New("invalid type assertion for anomaly event")
		}
		if r.AnomalyHandler != nil {
			r.AnomalyHandler(ctx, anomaly)
		} else {
			slog.Debug("anomaly handler is nil")
		}
	default:
		return fmt.Errorf("unsupported event id: %v", id)
	}
	return nil
}

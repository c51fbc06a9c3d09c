package middleware

import (
	"context"

	"go.uber.org/zap"

	"github.com/quantfold/replay/pkg/bus"
	"github.com/quantfold/replay/pkg/common"
)

// Telemetry counts the events flowing through the handlers it wraps.
type Telemetry struct {
	logger *zap.Logger

	snapshotEventCounter      int64
	orderPlacedEventCounter   int64
	orderFilledEventCounter   int64
	orderUnfilledEventCounter int64
	ledgerEventCounter        int64
	anomalyEventCounter       int64
}

func NewTelemetry(logger *zap.Logger) *Telemetry {
	return &Telemetry{
		logger: logger,
	}
}

func (t *Telemetry) WithSnapshot(handler bus.SnapshotEventHandler) bus.SnapshotEventHandler {
	return func(ctx context.Context, state common.State) {
		t.snapshotEventCounter++
		handler(ctx, state)
	}
}

func (t *Telemetry) WithOrderPlaced(handler bus.OrderPlacedEventHandler) bus.OrderPlacedEventHandler {
	return func(ctx context.Context, order common.Order) {
		t.orderPlacedEventCounter++
		handler(ctx, order)
	}
}

func (t *Telemetry) WithOrderFilled(handler bus.OrderFilledEventHandler) bus.OrderFilledEventHandler {
	return func(ctx context.Context, order common.Order) {
		t.orderFilledEventCounter++
		handler(ctx, order)
	}
}

func (t *Telemetry) WithOrderUnfilled(handler bus.OrderUnfilledEventHandler) bus.OrderUnfilledEventHandler {
	return func(ctx context.Context, unfilled common.OrderUnfilled) {
		t.orderUnfilledEventCounter++
		handler(ctx, unfilled)
	}
}

func (t *Telemetry) WithLedger(handler bus.LedgerEventHandler) bus.LedgerEventHandler {
	return func(ctx context.Context, entry common.LedgerEntry) {
		t.ledgerEventCounter++
		handler(ctx, entry)
	}
}

func (t *Telemetry) WithAnomaly(handler bus.AnomalyEventHandler) bus.AnomalyEventHandler {
	return func(ctx context.Context, anomaly common.Anomaly) {
		t.anomalyEventCounter++
		handler(ctx, anomaly)
	}
}

func (t *Telemetry) PrintStatistics() {
	t.logger.Info("telemetry statistics",
		zap.Int64("snapshot_events", t.snapshotEventCounter),
		zap.Int64("order_placed_events", t.orderPlacedEventCounter),
		zap.Int64("order_filled_events", t.orderFilledEventCounter),
		zap.Int64("order_unfilled_events", t.orderUnfilledEventCounter),
		zap.Int64("ledger_events", t.ledgerEventCounter),
		zap.Int64("anomaly_events", t.anomalyEventCounter),
	)
}

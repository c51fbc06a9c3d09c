package middleware

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/quantfold/replay/pkg/common"
)

func TestMiddleware_TelemetryCounts(t *testing.T) {
	telemetry := NewTelemetry(zap.NewNop())
	ctx := context.Background()

	snapshot := telemetry.WithSnapshot(NoopSnapshotHdl)
	placed := telemetry.WithOrderPlaced(NoopOrderPlacedHdl)
	ledger := telemetry.WithLedger(NoopLedgerHdl)

	snapshot(ctx, common.State{})
	snapshot(ctx, common.State{})
	placed(ctx, common.Order{})
	ledger(ctx, common.LedgerEntry{})

	if telemetry.snapshotEventCounter != 2 {
		t.Errorf("snapshot counter = %d, want 2", telemetry.snapshotEventCounter)
	}
	if telemetry.orderPlacedEventCounter != 1 {
		t.Errorf("order placed counter = %d, want 1", telemetry.orderPlacedEventCounter)
	}
	if telemetry.ledgerEventCounter != 1 {
		t.Errorf("ledger counter = %d, want 1", telemetry.ledgerEventCounter)
	}
	if telemetry.orderFilledEventCounter != 0 {
		t.Errorf("order filled counter = %d, want 0", telemetry.orderFilledEventCounter)
	}
}

func TestMiddleware_TelemetryPassesThrough(t *testing.T) {
	telemetry := NewTelemetry(zap.NewNop())

	var got common.Order
	wrapped := telemetry.WithOrderFilled(func(ctx context.Context, order common.Order) {
		got = order
	})

	wrapped(context.Background(), common.Order{Source: "broker"})

	if got.Source != "broker" {
		t.Errorf("wrapped handler did not receive the event, Source = %q", got.Source)
	}
}

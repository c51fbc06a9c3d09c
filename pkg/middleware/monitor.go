package middleware

import (
	"context"
	"log/slog"

	"github.com/quantfold/replay/pkg/bus"
	"github.com/quantfold/replay/pkg/common"
)

type MonitorFlags uint8

//goland:noinspection GoUnusedConst
const (
	MonitorNone MonitorFlags = 1 << iota
	MonitorAll
	MonitorSnapshots
	MonitorOrders
	MonitorFills
	MonitorUnfilled
	MonitorLedger
	MonitorAnomalies
)

// Monitor logs the events it is wired into, gated by flags.
type Monitor struct {
	flags MonitorFlags
}

func NewMonitor(flags MonitorFlags) *Monitor {
	return &Monitor{
		flags: flags,
	}
}

func (m *Monitor) WithSnapshot(handler bus.SnapshotEventHandler) bus.SnapshotEventHandler {
	return func(ctx context.Context, state common.State) {
		if m.flags&MonitorSnapshots != 0 || m.flags&MonitorAll != 0 {
			slog.Info("event", "snapshot_time", state.Time)
		}
		handler(ctx, state)
	}
}

func (m *Monitor) WithOrderPlaced(handler bus.OrderPlacedEventHandler) bus.OrderPlacedEventHandler {
	return func(ctx context.Context, order common.Order) {
		if m.flags&MonitorOrders != 0 || m.flags&MonitorAll != 0 {
			slog.Info("event", "order_placed", order)
		}
		handler(ctx, order)
	}
}

func (m *Monitor) WithOrderFilled(handler bus.OrderFilledEventHandler) bus.OrderFilledEventHandler {
	return func(ctx context.Context, order common.Order) {
		if m.flags&MonitorFills != 0 || m.flags&MonitorAll != 0 {
			slog.Info("event", "order_filled", order)
		}
		handler(ctx, order)
	}
}

func (m *Monitor) WithOrderUnfilled(handler bus.OrderUnfilledEventHandler) bus.OrderUnfilledEventHandler {
	return func(ctx context.Context, unfilled common.OrderUnfilled) {
		if m.flags&MonitorUnfilled != 0 || m.flags&MonitorAll != 0 {
			slog.Info("event", "order_unfilled", unfilled)
		}
		handler(ctx, unfilled)
	}
}

func (m *Monitor) WithLedger(handler bus.LedgerEventHandler) bus.LedgerEventHandler {
	return func(ctx context.Context, entry common.LedgerEntry) {
		if m.flags&MonitorLedger != 0 || m.flags&MonitorAll != 0 {
			slog.Info("event", "ledger_entry", entry)
		}
		handler(ctx, entry)
	}
}

func (m *Monitor) WithAnomaly(handler bus.AnomalyEventHandler) bus.AnomalyEventHandler {
	return func(ctx context.Context, anomaly common.Anomaly) {
		if m.flags&MonitorAnomalies != 0 || m.flags&MonitorAll != 0 {
			slog.Warn("event", "anomaly", anomaly)
		}
		handler(ctx, anomaly)
	}
}

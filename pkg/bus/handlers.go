package bus

import (
	"context"

	"github.com/quantfold/replay/pkg/common"
)

type EventHandler[T any] func(context.Context, T)

type SnapshotEventHandler EventHandler[common.State]
type OrderPlacedEventHandler EventHandler[common.Order]
type OrderFilledEventHandler EventHandler[common.Order]
type OrderUnfilledEventHandler EventHandler[common.OrderUnfilled]
type LedgerEventHandler EventHandler[common.LedgerEntry]
type AnomalyEventHandler EventHandler[common.Anomaly]

func MergeHandlers[T any](handlers ...EventHandler[T]) EventHandler[T] {
	return func(ctx context.Context, event T) {
		for _, handler := range handlers {
			handler(ctx, event)
		}
	}
}

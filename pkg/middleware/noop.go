package middleware

import (
	"context"

	"github.com/quantfold/replay/pkg/common"
)

//goland:noinspection GoUnusedGlobalVariable
var (
	NoopSnapshotHdl      = func(context.Context, common.State) {}
	NoopOrderPlacedHdl   = func(context.Context, common.Order) {}
	NoopOrderFilledHdl   = func(context.Context, common.Order) {}
	NoopOrderUnfilledHdl = func(context.Context, common.OrderUnfilled) {}
	NoopLedgerHdl        = func(context.Context, common.LedgerEntry) {}
	NoopAnomalyHdl       = func(context.Context, common.Anomaly) {}
)

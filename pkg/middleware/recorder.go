package middleware

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/quantfold/replay/pkg/bus"
	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/data/db/psql"
)

// Recorder exports ledger entries to postgres as they are written. The
// insert is synchronous so the ledger on disk never runs ahead of or behind
// the replay; a failed insert is logged and skipped.
type Recorder struct {
	db    *sql.DB
	runId int64
}

func NewRecorder(db *sql.DB, runId int64) *Recorder {
	return &Recorder{
		db:    db,
		runId: runId,
	}
}

func (r *Recorder) WithLedger(handler bus.LedgerEventHandler) bus.LedgerEventHandler {
	return func(ctx context.Context, entry common.LedgerEntry) {
		if err := psql.InsertLedgerEntry(ctx, r.db, r.runId, entry); err != nil {
			slog.Warn("unable to insert ledger entry", "error", err)
		}
		handler(ctx, entry)
	}
}

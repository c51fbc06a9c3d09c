package psql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/quantfold/replay/pkg/common"
)

func Connect(ctx context.Context, host, port, user, pass, db string) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, pass, db)
	dbConn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := dbConn.PingContext(ctx); err != nil {
		return nil, err
	}

	return dbConn, nil
}

func InsertLedgerEntry(ctx context.Context, db *sql.DB, runId int64, entry common.LedgerEntry) error {
	query := `
	INSERT INTO replay_ledger (
		run_id,
		trace_id,
		ts,
		cash,
		realizable_value,
		cost_value,
		market_value,
		transaction_cost,
		turnover,
		holding_count
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (run_id, ts) DO NOTHING;
	`

	cash, _ := entry.Cash.Float64()
	realizable, _ := entry.RealizableValue.Float64()
	cost, _ := entry.CostValue.Float64()
	market, _ := entry.MarketValue.Float64()
	transactionCost, _ := entry.TransactionCost.Float64()
	turnover, _ := entry.Turnover.Float64()

	_, err := db.ExecContext(
		ctx,
		query,
		runId,
		int64(entry.TraceID), // #nosec G115
		entry.Time,
		cash,
		realizable,
		cost,
		market,
		transactionCost,
		turnover,
		entry.HoldingCount,
	)

	return err
}

package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/datasource"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

// Reader loads a data panel from a duckdb file. The table is expected to
// hold one row per (dt, sid) with a close column and optional open, vwap and
// amount columns.
type Reader struct {
	dataSourceName string
	db             *sql.DB
}

func NewReader(dataSourceName string) *Reader {
	return &Reader{
		dataSourceName: dataSourceName,
	}
}

func (r *Reader) Connect() error {
	db, err := sql.Open("duckdb", r.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open %q: %w", r.dataSourceName, err)
	}
	r.db = db
	return nil
}

func (r *Reader) Close() {
	_ = r.db.Close()
}

func (r *Reader) LoadPanel(ctx context.Context, table string, from, to time.Time) (*datasource.Panel, error) {

	query := fmt.Sprintf(`SELECT dt, sid, open, close, vwap, amount FROM %s WHERE dt BETWEEN ? AND ? ORDER BY dt, sid`, table)

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", table, err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	builder := datasource.NewBuilder()
	for rows.Next() {
		var dt time.Time
		var sid string
		var open, close_, vwap, amount sql.NullFloat64

		if err := rows.Scan(&dt, &sid, &open, &close_, &vwap, &amount); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}

		values := make(map[string]fixed.Point, 4)
		if close_.Valid {
			values[common.FieldClose] = fixed.FromFloat64(close_.Float64)
		}
		if open.Valid {
			values[common.FieldOpen] = fixed.FromFloat64(open.Float64)
		}
		if vwap.Valid {
			values[common.FieldVwap] = fixed.FromFloat64(vwap.Float64)
		}
		if amount.Valid {
			values[common.FieldAmount] = fixed.FromFloat64(amount.Float64)
		}
		if err := builder.Append(dt, sid, values); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning rows: %w", err)
	}

	return builder.Build()
}

package main

import (
	"time"

	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/middleware"
	"github.com/quantfold/replay/pkg/simulation"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

var SimulationStart = time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
var SimulationEnd = time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)

const (
	PanelSource   = "data/equities_daily.duckdb"
	PanelTable    = "bars_daily"
	WeightsSource = "data/target_weights.csv"

	FillField  = common.FieldVwap
	FillTiming = simulation.FillNextBar

	MonitorFlags = middleware.MonitorUnfilled | middleware.MonitorAnomalies

	// Set PostgresHost to export the ledger while the replay runs.
	PostgresHost = ""
	PostgresPort = "5432"
	PostgresUser = "replay"
	PostgresPass = "replay"
	PostgresDb   = "replay"
	RunId        = 1
)

var (
	InitCash          = fixed.FromInt64(100_000_000, 0)
	RebalanceCorridor = fixed.FromInt64(1, 2)
)

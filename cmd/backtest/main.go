package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/quantfold/replay/pkg/broker"
	"github.com/quantfold/replay/pkg/bus"
	"github.com/quantfold/replay/pkg/data/db/psql"
	"github.com/quantfold/replay/pkg/datasource/duckdb"
	"github.com/quantfold/replay/pkg/dbg"
	"github.com/quantfold/replay/pkg/middleware"
	"github.com/quantfold/replay/pkg/simulation"
)

func main() {
	logger := dbg.NewDevLogger()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reader := duckdb.NewReader(PanelSource)
	if err := reader.Connect(); err != nil {
		logger.Fatal("unable to connect to panel source", zap.Error(err))
	}
	defer reader.Close()

	panel, err := reader.LoadPanel(ctx, PanelTable, SimulationStart, SimulationEnd)
	if err != nil {
		logger.Fatal("unable to load panel", zap.Error(err))
	}

	weights, err := loadWeights(WeightsSource)
	if err != nil {
		logger.Fatal("unable to load target weights", zap.Error(err))
	}

	router := bus.NewRouter()
	monitor := middleware.NewMonitor(MonitorFlags)
	telemetry := middleware.NewTelemetry(logger)

	runner := simulation.NewRunner(router, panel, newHoldingsStrategy(weights, RebalanceCorridor),
		simulation.Config{
			InitCash: InitCash,
			Timing:   FillTiming,
		},
		broker.WithFillField(FillField),
	)

	router.SnapshotHandler = middleware.Chain(telemetry.WithSnapshot, monitor.WithSnapshot)(middleware.NoopSnapshotHdl)
	router.OrderPlacedHandler = middleware.Chain(telemetry.WithOrderPlaced, monitor.WithOrderPlaced)(middleware.NoopOrderPlacedHdl)
	router.OrderFilledHandler = middleware.Chain(telemetry.WithOrderFilled, monitor.WithOrderFilled)(middleware.NoopOrderFilledHdl)
	router.OrderUnfilledHandler = middleware.Chain(telemetry.WithOrderUnfilled, monitor.WithOrderUnfilled)(middleware.NoopOrderUnfilledHdl)
	router.AnomalyHandler = middleware.Chain(telemetry.WithAnomaly, monitor.WithAnomaly)(middleware.NoopAnomalyHdl)

	ledgerHandler := middleware.Chain(telemetry.WithLedger, monitor.WithLedger)(middleware.NoopLedgerHdl)
	if PostgresHost != "" {
		db, err := psql.Connect(ctx, PostgresHost, PostgresPort, PostgresUser, PostgresPass, PostgresDb)
		if err != nil {
			logger.Fatal("unable to connect to postgres", zap.Error(err))
		}
		defer func() {
			_ = db.Close()
		}()
		ledgerHandler = middleware.NewRecorder(db, RunId).WithLedger(ledgerHandler)
	}
	router.LedgerHandler = ledgerHandler

	defer router.PrintStatistics()
	defer telemetry.PrintStatistics()

	if err := runner.Run(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Fatal("error during replay", zap.Error(err))
		}
		return
	}

	report := simulation.BuildReport(runner.Broker().Ledger())
	report.Print(logger)
}

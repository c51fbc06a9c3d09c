package simulation

import (
	"time"

	"go.uber.org/zap"

	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

// Report summarises a finished run from its ledger.
type Report struct {
	StartDate time.Time
	EndDate   time.Time
	Steps     int

	StartNav    fixed.Point
	FinalNav    fixed.Point
	TotalReturn fixed.Point
	MaxDrawdown fixed.Point

	SharpeRatio  fixed.Point
	SortinoRatio fixed.Point

	TotalTurnover   fixed.Point
	TotalCost       fixed.Point
	MaxHoldingCount int
}

func BuildReport(ledger *common.Ledger) Report {
	entries := ledger.Entries()
	if len(entries) == 0 {
		return Report{}
	}

	var report Report
	report.StartDate = entries[0].Time
	report.EndDate = entries[len(entries)-1].Time
	report.Steps = len(entries)
	report.TotalTurnover = fixed.Zero
	report.TotalCost = fixed.Zero

	navs := make([]fixed.Point, 0, len(entries))
	returns := make([]fixed.Point, 0, len(entries)-1)
	for i, entry := range entries {
		nav := entry.Nav()
		navs = append(navs, nav)
		if i > 0 && !navs[i-1].IsZero() {
			returns = append(returns, nav.Div(navs[i-1]).Sub(fixed.One))
		}
		report.TotalTurnover = report.TotalTurnover.Add(entry.Turnover)
		report.TotalCost = report.TotalCost.Add(entry.TransactionCost)
		if entry.HoldingCount > report.MaxHoldingCount {
			report.MaxHoldingCount = entry.HoldingCount
		}
	}

	report.StartNav = navs[0]
	report.FinalNav = navs[len(navs)-1]
	if !report.StartNav.IsZero() {
		report.TotalReturn = report.FinalNav.Div(report.StartNav).Sub(fixed.One)
	}
	report.MaxDrawdown = fixed.MaxDrawdown(navs)
	report.SharpeRatio = fixed.SharpeRatio(returns, fixed.Zero)
	report.SortinoRatio = fixed.SortinoRatio(returns, fixed.Zero)

	return report
}

func (report Report) Print(logger *zap.Logger) {
	logger.Info("replay report",
		zap.Time("start_date", report.StartDate),
		zap.Time("end_date", report.EndDate),
		zap.Int("steps", report.Steps),
		zap.String("start_nav", report.StartNav.String()),
		zap.String("final_nav", report.FinalNav.String()),
		zap.String("total_return", report.TotalReturn.String()),
		zap.String("max_drawdown", report.MaxDrawdown.String()),
	)

	logger.Info("trading statistics",
		zap.String("total_turnover", report.TotalTurnover.String()),
		zap.String("total_cost", report.TotalCost.String()),
		zap.Int("max_holding_count", report.MaxHoldingCount),
	)

	logger.Info("risk metrics",
		zap.String("sharpe_ratio", report.SharpeRatio.String()),
		zap.String("sortino_ratio", report.SortinoRatio.String()),
	)
}

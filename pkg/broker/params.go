package broker

import (
	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

// Params are the process-wide trading constants of a run.
type Params struct {
	// Slippage is the directional price adjustment applied at fill time,
	// as a fraction of the fill price. Buying pays up, selling receives less.
	Slippage fixed.Point
	// Commission is charged on the absolute transaction amount.
	Commission fixed.Point
	// SellTax is an additional levy applied to the sell side only.
	SellTax fixed.Point
	// MaxTradingPercentage caps the executable quantity at a fraction of the
	// snapshot's traded amount, when an amount field is present.
	MaxTradingPercentage fixed.Point

	// FillField selects the price series orders are matched against.
	FillField string
	// BenchmarkField is the price series used for mark-to-market valuation.
	BenchmarkField string
}

func DefaultParams() Params {
	return Params{
		Slippage:             fixed.FromInt64(2, 3),
		Commission:           fixed.FromInt64(1, 3),
		SellTax:              fixed.FromInt64(1, 3),
		MaxTradingPercentage: fixed.FromInt64(5, 2),
		FillField:            common.FieldVwap,
		BenchmarkField:       common.FieldClose,
	}
}

type Option func(*Params)

func WithSlippage(slippage fixed.Point) Option {
	return func(p *Params) {
		p.Slippage = slippage
	}
}

func WithCommission(commission fixed.Point) Option {
	return func(p *Params) {
		p.Commission = commission
	}
}

func WithSellTax(sellTax fixed.Point) Option {
	return func(p *Params) {
		p.SellTax = sellTax
	}
}

func WithMaxTradingPercentage(pct fixed.Point) Option {
	return func(p *Params) {
		p.MaxTradingPercentage = pct
	}
}

func WithFillField(field string) Option {
	return func(p *Params) {
		p.FillField = field
	}
}

func WithBenchmarkField(field string) Option {
	return func(p *Params) {
		p.BenchmarkField = field
	}
}

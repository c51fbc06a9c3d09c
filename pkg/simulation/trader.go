package simulation

import (
	"context"
	"fmt"

	"github.com/quantfold/replay/pkg/broker"
	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

// Trader is the order-submission capability handed to the strategy for one
// step. It carries the step's state so every operation prices against the
// snapshot the strategy is looking at.
type Trader struct {
	broker *broker.Broker
	state  common.State
}

func (t *Trader) State() common.State {
	return t.state
}

func (t *Trader) Portfolio() *broker.Portfolio {
	return t.broker.Portfolio()
}

func (t *Trader) Ledger() *common.Ledger {
	return t.broker.Ledger()
}

// PlaceOrder wraps the signed quantities into an order created at the
// current timestamp and queues it with the broker.
func (t *Trader) PlaceOrder(ctx context.Context, quantity common.Series) *common.Order {
	order := common.NewOrder(quantity, t.state.Time)
	t.broker.PlaceOrder(ctx, order)
	return order
}

func (t *Trader) CancelAll() {
	t.broker.CancelAll()
}

type rebalanceConfig struct {
	notional       fixed.Point
	hasNotional    bool
	corridor       fixed.Point
	byWeight       bool
	benchmarkField string
}

type RebalanceOption func(*rebalanceConfig)

// WithNotional overrides the total value the target is scaled against;
// without it the portfolio's realizable value plus cash is used.
func WithNotional(notional fixed.Point) RebalanceOption {
	return func(c *rebalanceConfig) {
		c.notional = notional
		c.hasNotional = true
	}
}

// WithCorridor suppresses trades whose absolute notional change does not
// exceed the threshold. Values below one are read as a fraction of total
// value, values of one and above as an absolute amount.
func WithCorridor(corridor fixed.Point) RebalanceOption {
	return func(c *rebalanceConfig) {
		c.corridor = corridor
	}
}

// ByShares interprets the target as share counts instead of weights.
func ByShares() RebalanceOption {
	return func(c *rebalanceConfig) {
		c.byWeight = false
	}
}

// WithRebalanceBenchmark selects the price series used to value current and
// target positions; defaults to the broker's benchmark field.
func WithRebalanceBenchmark(field string) RebalanceOption {
	return func(c *rebalanceConfig) {
		c.benchmarkField = field
	}
}

// Rebalance converts a target portfolio into one net order against current
// positions: cancel the active queue, compute per-instrument notional
// differences, drop those within the corridor, convert the rest to whole
// shares at the benchmark price and submit the non-zero quantities.
func (t *Trader) Rebalance(ctx context.Context, target common.Series, options ...RebalanceOption) error {
	cfg := rebalanceConfig{
		byWeight:       true,
		corridor:       fixed.Zero,
		benchmarkField: t.broker.Params().BenchmarkField,
	}
	for _, option := range options {
		option(&cfg)
	}

	bench, ok := t.state.Quote.Field(cfg.benchmarkField)
	if !ok {
		return fmt.Errorf("%w: %q", broker.ErrInvalidPriceField, cfg.benchmarkField)
	}

	t.broker.CancelAll()

	portfolio := t.broker.Portfolio()
	total := portfolio.TotalValue()
	if cfg.hasNotional {
		total = cfg.notional
	}

	var targetNotional common.Series
	if cfg.byWeight {
		targetNotional = target.Scale(total)
	} else {
		targetNotional = target.MulSeries(bench)
	}
	currentNotional := portfolio.Positions().MulSeries(bench)
	diff := targetNotional.Sub(currentNotional)

	corridor := cfg.corridor
	if corridor.Gt(fixed.Zero) && corridor.Lt(fixed.One) {
		corridor = corridor.Mul(total)
	}

	quantity := make(common.Series)
	for sid, notional := range diff {
		// Strict comparison: a change exactly at the corridor is suppressed.
		if !notional.Abs().Gt(corridor) {
			continue
		}
		price := bench.Get(sid)
		if price.Sign() <= 0 {
			continue
		}
		shares := notional.Div(price).Trunc()
		if !shares.IsZero() {
			quantity[sid] = shares
		}
	}

	if len(quantity) > 0 {
		t.PlaceOrder(ctx, quantity)
	}
	return nil
}

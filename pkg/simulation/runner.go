package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quantfold/replay/pkg/broker"
	"github.com/quantfold/replay/pkg/bus"
	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/datasource"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

type FillTiming string

const (
	// FillNextBar matches the previous step's orders against the current
	// snapshot before the strategy decides. A strategy never trades on the
	// bar it is deciding from.
	FillNextBar FillTiming = "next_bar"
	// FillThisBar lets the strategy decide first and matches its orders
	// against the same bar immediately.
	FillThisBar FillTiming = "this_bar"
)

const defaultProgressEvery = 250

// Strategy is the user-supplied decision callback, invoked once per
// timestamp with read access to the current state. Orders are submitted
// through the trader; the snapshot must not be mutated.
type Strategy interface {
	OnData(ctx context.Context, state common.State, trader *Trader) error
}

type Config struct {
	// InitCash defaults to 10,000,000.
	InitCash fixed.Point
	// Timing defaults to FillNextBar.
	Timing FillTiming
	// ProgressEvery is the step interval of the progress side channel.
	ProgressEvery int
}

// Runner replays the panel's sorted distinct timestamps through the broker
// and the strategy. The replay is single-threaded and deterministic: every
// effect of timestamp t is complete before t+1 starts, and the order of
// matching versus deciding within a step is fixed by the timing mode.
type Runner struct {
	router   *bus.Router
	panel    *datasource.Panel
	strategy Strategy
	broker   *broker.Broker

	timing        FillTiming
	progressEvery int
}

func NewRunner(router *bus.Router, panel *datasource.Panel, strategy Strategy, cfg Config, options ...broker.Option) *Runner {
	if cfg.Timing == "" {
		cfg.Timing = FillNextBar
	}
	if cfg.InitCash.IsZero() {
		cfg.InitCash = fixed.FromInt64(10_000_000, 0)
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = defaultProgressEvery
	}

	r := &Runner{
		router:        router,
		panel:         panel,
		strategy:      strategy,
		broker:        broker.New(router, cfg.InitCash, options...),
		timing:        cfg.Timing,
		progressEvery: cfg.ProgressEvery,
	}

	if r.timing == FillThisBar && r.broker.Params().FillField == common.FieldOpen {
		slog.Warn("filling at the decision bar's open price is likely to use future information")
	}
	return r
}

func (r *Runner) Broker() *broker.Broker {
	return r.broker
}

// Run replays all panel timestamps. A per-step error terminates the run with
// the ledger truncated at the last fully recorded day. The context is
// checked between steps only; a step never suspends mid-flight.
func (r *Runner) Run(ctx context.Context) error {
	var prevTime time.Time
	var prevQuote common.Snapshot

	steps := r.panel.Len()
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		state := common.State{
			Time:      r.panel.DateAt(i),
			PrevTime:  prevTime,
			Quote:     r.panel.SnapshotAt(i),
			PrevQuote: prevQuote,
		}
		if err := r.step(ctx, state); err != nil {
			return fmt.Errorf("replaying %s: %w", state.Time.Format(time.DateOnly), err)
		}

		prevTime = state.Time
		prevQuote = state.Quote

		if (i+1)%r.progressEvery == 0 || i+1 == steps {
			slog.Info("replay progress", "step", i+1, "steps", steps, "time", state.Time)
		}
	}
	return nil
}

func (r *Runner) step(ctx context.Context, state common.State) error {
	if err := r.router.Post(ctx, bus.SnapshotEvent, state); err != nil {
		slog.Warn("unable to post snapshot event", "error", err)
	}

	trader := &Trader{broker: r.broker, state: state}

	switch r.timing {
	case FillNextBar:
		if err := r.broker.OnQuote(ctx, state); err != nil {
			return err
		}
		if err := r.strategy.OnData(ctx, state, trader); err != nil {
			return fmt.Errorf("strategy decision: %w", err)
		}
	case FillThisBar:
		if err := r.strategy.OnData(ctx, state, trader); err != nil {
			return fmt.Errorf("strategy decision: %w", err)
		}
		if err := r.broker.OnQuote(ctx, state); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown fill timing %q", r.timing)
	}

	return r.broker.PostDay(ctx, state)
}

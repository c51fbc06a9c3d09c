package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/quantfold/replay/pkg/common"
	"github.com/quantfold/replay/pkg/simulation"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

// holdingsStrategy rebalances towards externally supplied target weights on
// the days a target exists and stays put otherwise.
type holdingsStrategy struct {
	corridor fixed.Point
	weights  map[int64]common.Series
}

func newHoldingsStrategy(weights map[int64]common.Series, corridor fixed.Point) *holdingsStrategy {
	return &holdingsStrategy{
		corridor: corridor,
		weights:  weights,
	}
}

func (s *holdingsStrategy) OnData(ctx context.Context, state common.State, trader *simulation.Trader) error {
	weights, ok := s.weights[state.Time.UnixNano()]
	if !ok {
		return nil
	}
	return trader.Rebalance(ctx, weights, simulation.WithCorridor(s.corridor))
}

// loadWeights reads a csv of date,sid,weight records into per-date target
// series.
func loadWeights(path string) (map[int64]common.Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, err
	}

	weights := make(map[int64]common.Series)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		date, err := time.Parse(time.DateOnly, record[0])
		if err != nil {
			return nil, fmt.Errorf("bad date %q: %w", record[0], err)
		}
		weight, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("bad weight %q: %w", record[2], err)
		}

		key := date.UnixNano()
		if weights[key] == nil {
			weights[key] = make(common.Series)
		}
		weights[key][record[1]] = fixed.FromFloat64(weight)
	}
	return weights, nil
}

package backtest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"CryptoBacktester/internal/models"
)

// PriceSource supplies the ordered historical series for one symbol and
// range. The returned candles are read-only input; the engine never mutates
// them, so one series may back many concurrent runs.
type PriceSource interface {
	GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) ([]models.Price, error)
}

// Engine runs backtests. It holds no per-run state, so a single Engine is
// safe for any number of concurrent Run calls; each run owns its own
// simulator, portfolio, and trade log.
type Engine struct {
	prices PriceSource
}

func NewEngine(prices PriceSource) *Engine {
	return &Engine{prices: prices}
}

// Run validates the request, loads and checks the price series, simulates
// the strategy bar-by-bar, and assembles the result. Validation errors,
// data errors, and cancellation are surfaced as distinct error types.
func (e *Engine) Run(ctx context.Context, req BacktestRequest) (*BacktestResult, error) {
	if errs := Validate(req, time.Now()); len(errs) > 0 {
		return nil, errs
	}

	candles, err := e.prices.GetPriceHistory(ctx, req.Symbol, req.StartDate, req.EndDate)
	if err != nil {
		// A cancelled or timed-out run is not a data failure
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &DataError{Symbol: req.Symbol, Reason: err.Error()}
	}
	if err := verifySeries(req.Symbol, candles); err != nil {
		return nil, err
	}

	log.Printf("Backtesting %s %s over %d bars", req.StrategyKind, req.Symbol, len(candles))

	simulator := NewSimulator(req.Config.NewStrategy(), req)
	sim, err := simulator.Run(ctx, candles)
	if err != nil {
		return nil, err
	}

	metrics := CalculateMetrics(req.InitialCapital, sim.EquityCurve, sim.Trades)
	return BuildResult(req, sim, metrics), nil
}

// verifySeries rejects empty, unordered, gapped, or malformed bar series.
// The data collaborator is responsible for filling gaps; here a missing bar
// is a data error, not something to interpolate. A non-positive price would
// poison the ledger arithmetic, so it is rejected up front.
func verifySeries(symbol string, candles []models.Price) error {
	if len(candles) == 0 {
		return &DataError{Symbol: symbol, Reason: "no price history for the requested range"}
	}

	for _, c := range candles {
		if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
			return &DataError{
				Symbol: symbol,
				Reason: fmt.Sprintf("non-positive price at %s", c.OpenTime.Format("2006-01-02")),
			}
		}
	}

	for i := 1; i < len(candles); i++ {
		prev, cur := candles[i-1].OpenTime, candles[i].OpenTime
		if !cur.After(prev) {
			return &DataError{
				Symbol: symbol,
				Reason: fmt.Sprintf("out-of-order bar at %s", cur.Format("2006-01-02")),
			}
		}
		if cur.Sub(prev) > BarInterval {
			return &DataError{
				Symbol: symbol,
				Reason: fmt.Sprintf("gap in series between %s and %s",
					prev.Format("2006-01-02"), cur.Format("2006-01-02")),
			}
		}
	}
	return nil
}

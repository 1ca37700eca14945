package backtest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoBacktester/internal/models"
	"CryptoBacktester/internal/services/strategy"
)

// stubSource returns a canned series and counts calls, so tests can prove the
// engine rejects bad requests before touching price data.
type stubSource struct {
	candles []models.Price
	err     error
	calls   int
}

func (s *stubSource) GetPriceHistory(_ context.Context, _ string, _, _ time.Time) ([]models.Price, error) {
	s.calls++
	return s.candles, s.err
}

// ctxSource fails with whatever the context reports, the way a real fetch
// does when the caller goes away mid-request.
type ctxSource struct{}

func (ctxSource) GetPriceHistory(ctx context.Context, _ string, _, _ time.Time) ([]models.Price, error) {
	return nil, ctx.Err()
}

func rsiConfig(t *testing.T) strategy.Config {
	t.Helper()
	cfg, err := strategy.ParseConfig(strategy.KindRSI,
		json.RawMessage(`{"period":14,"oversold":30,"overbought":70}`))
	require.NoError(t, err)
	return cfg
}

func engineRequest(t *testing.T) BacktestRequest {
	t.Helper()
	return BacktestRequest{
		StrategyKind:   strategy.KindRSI,
		Config:         rsiConfig(t),
		Symbol:         "BTCUSDT",
		StartDate:      time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		InitialCapital: 10_000,
	}
}

// A full year of daily closes: a long drawdown pushes RSI deep into oversold
// territory, then a sustained recovery pushes it overbought.
func yearOfCandles() []models.Price {
	closes := make([]float64, 365)
	for i := range closes {
		if i < 100 {
			closes[i] = 200 - float64(i)
		} else {
			closes[i] = 101 + float64(i-100)*0.5
		}
	}
	return dailyCandles(closes...)
}

func TestEngineRejectsInvalidRequestBeforeFetching(t *testing.T) {
	source := &stubSource{}
	engine := NewEngine(source)

	req := engineRequest(t)
	req.EndDate = req.StartDate.Add(10 * 24 * time.Hour)

	_, err := engine.Run(context.Background(), req)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, 0, source.calls)
}

func TestEngineEmptySeriesIsDataError(t *testing.T) {
	engine := NewEngine(&stubSource{})

	_, err := engine.Run(context.Background(), engineRequest(t))

	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, "BTCUSDT", dataErr.Symbol)
}

func TestEngineGappedSeriesIsDataError(t *testing.T) {
	candles := yearOfCandles()
	gapped := append(candles[:50:50], candles[52:]...)
	engine := NewEngine(&stubSource{candles: gapped})

	_, err := engine.Run(context.Background(), engineRequest(t))

	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Contains(t, dataErr.Reason, "gap")
}

func TestEngineOutOfOrderSeriesIsDataError(t *testing.T) {
	candles := yearOfCandles()
	candles[10], candles[11] = candles[11], candles[10]
	engine := NewEngine(&stubSource{candles: candles})

	_, err := engine.Run(context.Background(), engineRequest(t))

	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Contains(t, dataErr.Reason, "out-of-order")
}

func TestEngineSourceFailureIsDataError(t *testing.T) {
	engine := NewEngine(&stubSource{err: errors.New("exchange unavailable")})

	_, err := engine.Run(context.Background(), engineRequest(t))

	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Contains(t, dataErr.Reason, "exchange unavailable")
}

// A zero or negative price in the series would poison the ledger arithmetic
// with Inf/NaN, so the engine rejects it as bad data before simulating.
func TestEngineNonPositivePriceIsDataError(t *testing.T) {
	candles := yearOfCandles()
	candles[30].Open = 0
	candles[30].High = 0
	candles[30].Low = 0
	candles[30].Close = 0
	engine := NewEngine(&stubSource{candles: candles})

	_, err := engine.Run(context.Background(), engineRequest(t))

	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Contains(t, dataErr.Reason, "non-positive price")

	candles = yearOfCandles()
	candles[100].Low = -5
	engine = NewEngine(&stubSource{candles: candles})

	_, err = engine.Run(context.Background(), engineRequest(t))
	require.ErrorAs(t, err, &dataErr)
}

// Cancellation during the price fetch stays recognizable as cancellation
// rather than being reported as a data failure.
func TestEngineFetchCancellation(t *testing.T) {
	engine := NewEngine(&ctxSource{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Run(ctx, engineRequest(t))
	require.ErrorIs(t, err, context.Canceled)

	var dataErr *DataError
	assert.False(t, errors.As(err, &dataErr))
}

func TestEngineRSIFullYear(t *testing.T) {
	engine := NewEngine(&stubSource{candles: yearOfCandles()})
	req := engineRequest(t)

	result, err := engine.Run(context.Background(), req)
	require.NoError(t, err)

	// The oversold leg triggers a buy and the recovery closes it out.
	assert.GreaterOrEqual(t, result.TotalTrades, 2)
	assert.Len(t, result.DailyReturns, 365)
	assert.Greater(t, result.FinalBalance, 0.0)
	assert.Equal(t, 10_000.0, result.InitialBalance)
	assert.Equal(t, "2023-01-01", time.Time(result.StartDate).Format("2006-01-02"))
	assert.Equal(t, "2023-12-31", time.Time(result.EndDate).Format("2006-01-02"))
	assert.LessOrEqual(t, result.MaxDrawdownPct, 0.0)
}

func TestEngineDeterministic(t *testing.T) {
	run := func() *BacktestResult {
		engine := NewEngine(&stubSource{candles: yearOfCandles()})
		result, err := engine.Run(context.Background(), engineRequest(t))
		require.NoError(t, err)
		return result
	}

	require.Equal(t, run(), run())
}

func TestEngineCancellation(t *testing.T) {
	engine := NewEngine(&stubSource{candles: yearOfCandles()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Run(ctx, engineRequest(t))
	require.ErrorIs(t, err, context.Canceled)
}

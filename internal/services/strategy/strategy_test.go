package strategy

import (
	"encoding/json"
	"testing"
	"time"

	"CryptoBacktester/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candles(closes ...float64) []models.Price {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Price, len(closes))
	for i, close := range closes {
		out[i] = models.Price{
			Symbol:    "BTCUSDT",
			TimeFrame: models.PriceTimeFrame1d,
			OpenTime:  start.Add(time.Duration(i) * 24 * time.Hour),
			Open:      close,
			High:      close,
			Low:       close,
			Close:     close,
		}
	}
	return out
}

func signalsFor(s Strategy, series []models.Price) []Signal {
	out := make([]Signal, len(series))
	for i, candle := range series {
		out[i] = s.Next(candle)
	}
	return out
}

func TestParseConfigByKind(t *testing.T) {
	for _, kind := range Kinds() {
		cfg, err := ParseConfig(kind, json.RawMessage(`{}`))
		require.NoError(t, err, kind)
		assert.Equal(t, kind, cfg.Kind())
	}

	_, err := ParseConfig("martingale", nil)
	assert.Error(t, err)

	_, err = ParseConfig(KindRSI, json.RawMessage(`{"period": "fourteen"}`))
	assert.Error(t, err)
}

func TestRSIConfigValidate(t *testing.T) {
	valid := &RSIConfig{Period: 14, Oversold: 30, Overbought: 70}
	assert.Empty(t, valid.Validate())

	// oversold > overbought is impossible with in-range values; the
	// cross-field rule still fires on its own
	crossed := &RSIConfig{Period: 14, Oversold: 35, Overbought: 30}
	errs := crossed.Validate()
	require.NotEmpty(t, errs)

	var fields []string
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	// 30 is below the overbought floor and above oversold, so both the
	// range rule and the ordering rule report
	assert.Contains(t, fields, "overbought")
	assert.Contains(t, fields, "oversold")

	outOfRange := &RSIConfig{Period: 3, Oversold: 5, Overbought: 95}
	assert.Len(t, outOfRange.Validate(), 3)
}

func TestSMACrossoverConfigValidate(t *testing.T) {
	assert.Empty(t, (&SMACrossoverConfig{ShortPeriod: 10, LongPeriod: 50}).Validate())

	inverted := &SMACrossoverConfig{ShortPeriod: 50, LongPeriod: 10}
	assert.NotEmpty(t, inverted.Validate())
}

func TestDCAStrategyCadence(t *testing.T) {
	cfg := &DCAConfig{IntervalDays: 3, AmountPerBuy: 100}
	require.Empty(t, cfg.Validate())

	signals := signalsFor(cfg.NewStrategy(), candles(10, 10, 10, 10, 10, 10, 10))
	for i, sig := range signals {
		if i%3 == 0 {
			assert.Equal(t, ActionBuy, sig.Action, "bar %d", i)
			assert.Equal(t, 100.0, sig.Notional, "bar %d", i)
		} else {
			assert.Equal(t, ActionHold, sig.Action, "bar %d", i)
		}
	}
}

func TestGridStrategyBandCrossings(t *testing.T) {
	cfg := &GridTradingConfig{LowerPrice: 100, UpperPrice: 200, GridLevels: 4, AmountPerGrid: 50}
	require.Empty(t, cfg.Validate())

	// Bands of width 25: anchor at 150, drop two bands, recover, idle
	signals := signalsFor(cfg.NewStrategy(), candles(150, 120, 160, 165))

	assert.Equal(t, ActionHold, signals[0].Action)
	assert.Equal(t, ActionBuy, signals[1].Action)
	assert.Equal(t, 50.0, signals[1].Notional)
	assert.Equal(t, ActionSell, signals[2].Action)
	assert.Equal(t, ActionHold, signals[3].Action)
}

func TestSMACrossoverStrategySignals(t *testing.T) {
	cfg := &SMACrossoverConfig{ShortPeriod: 2, LongPeriod: 3}
	signals := signalsFor(cfg.NewStrategy(), candles(10, 9, 8, 12, 5, 1))

	// Warm-up: long window fills on bar 2, first diff only anchors
	assert.Equal(t, ActionHold, signals[0].Action)
	assert.Equal(t, ActionHold, signals[1].Action)
	assert.Equal(t, ActionHold, signals[2].Action)

	assert.Equal(t, ActionBuy, signals[3].Action)
	assert.Equal(t, ActionHold, signals[4].Action)
	assert.Equal(t, ActionSell, signals[5].Action)
}

func TestRSIStrategyOversoldDip(t *testing.T) {
	cfg := &RSIConfig{Period: 5, Oversold: 30, Overbought: 70}
	strat := cfg.NewStrategy()

	// Warm-up emits Hold deterministically
	flat := candles(100, 100, 100, 100, 100)
	for i, sig := range signalsFor(strat, flat) {
		assert.Equal(t, ActionHold, sig.Action, "warm-up bar %d", i)
	}

	// Steady decline drives RSI to the floor
	var sawBuy bool
	for _, sig := range signalsFor(strat, candles(95, 90, 85, 80, 75, 70)) {
		if sig.Action == ActionBuy {
			sawBuy = true
		}
	}
	assert.True(t, sawBuy, "expected a buy during the oversold dip")
}

func TestMACDStrategyReversal(t *testing.T) {
	cfg := &MACDConfig{FastPeriod: 3, SlowPeriod: 6, SignalPeriod: 3}
	strat := cfg.NewStrategy()

	closes := make([]float64, 0, 40)
	for i := 0; i < 20; i++ {
		closes = append(closes, 100+float64(i)*5) // rally
	}
	for i := 0; i < 20; i++ {
		closes = append(closes, 195-float64(i)*5) // reversal
	}

	signals := signalsFor(strat, candles(closes...))

	var sawSell bool
	for i := 20; i < len(signals); i++ {
		if signals[i].Action == ActionSell {
			sawSell = true
		}
	}
	assert.True(t, sawSell, "expected a sell after the trend reversed")
}

// Perturbing bars after t must not change the signal at t.
func TestNoLookahead(t *testing.T) {
	closes := []float64{100, 95, 90, 85, 80, 85, 90, 95, 100, 105, 110, 105, 100, 95, 90}
	perturbed := append(append([]float64{}, closes...), 1, 1000, 1)

	configs := []Config{
		&DCAConfig{IntervalDays: 2, AmountPerBuy: 50},
		&GridTradingConfig{LowerPrice: 50, UpperPrice: 150, GridLevels: 5, AmountPerGrid: 50},
		&SMACrossoverConfig{ShortPeriod: 2, LongPeriod: 4},
		&RSIConfig{Period: 5, Oversold: 30, Overbought: 70},
		&MACDConfig{FastPeriod: 3, SlowPeriod: 5, SignalPeriod: 3},
	}

	for _, cfg := range configs {
		base := signalsFor(cfg.NewStrategy(), candles(closes...))
		extended := signalsFor(cfg.NewStrategy(), candles(perturbed...))
		assert.Equal(t, base, extended[:len(base)], cfg.Kind())
	}
}

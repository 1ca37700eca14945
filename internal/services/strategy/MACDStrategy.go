package strategy

import (
	"CryptoBacktester/internal/models"
	"CryptoBacktester/internal/services/indicators"
)

// MACDConfig parameterizes the MACD trend strategy: buy when the MACD line
// crosses above its signal line, sell when it crosses below.
type MACDConfig struct {
	FastPeriod   int `json:"fast_period"`
	SlowPeriod   int `json:"slow_period"`
	SignalPeriod int `json:"signal_period"`
}

func (c *MACDConfig) Kind() string {
	return KindMACD
}

func (c *MACDConfig) Validate() []ParamError {
	var errs []ParamError
	if c.FastPeriod < 2 || c.FastPeriod > 50 {
		errs = append(errs, ParamError{
			Field:   "fast_period",
			Message: "fast_period must be between 2 and 50",
		})
	}
	if c.SlowPeriod < 5 || c.SlowPeriod > 100 {
		errs = append(errs, ParamError{
			Field:   "slow_period",
			Message: "slow_period must be between 5 and 100",
		})
	}
	if c.SignalPeriod < 2 || c.SignalPeriod > 50 {
		errs = append(errs, ParamError{
			Field:   "signal_period",
			Message: "signal_period must be between 2 and 50",
		})
	}
	if c.FastPeriod >= c.SlowPeriod {
		errs = append(errs, ParamError{
			Field:   "fast_period",
			Message: "fast_period must be strictly less than slow_period",
		})
	}
	return errs
}

func (c *MACDConfig) NewStrategy() Strategy {
	return &MACDStrategy{
		macd: indicators.NewMACDTracker(c.FastPeriod, c.SlowPeriod, c.SignalPeriod),
	}
}

// MACDStrategy tracks the histogram sign between bars to detect signal-line
// crossovers.
type MACDStrategy struct {
	macd *indicators.MACDTracker

	prevHist float64
	havePrev bool
}

func (s *MACDStrategy) Name() string {
	return KindMACD
}

func (s *MACDStrategy) Next(candle models.Price) Signal {
	s.macd.Push(candle.Close)
	if !s.macd.Ready() {
		return Hold
	}

	hist := s.macd.Histogram()
	if !s.havePrev {
		s.havePrev = true
		s.prevHist = hist
		return Hold
	}

	prev := s.prevHist
	s.prevHist = hist

	if prev <= 0 && hist > 0 {
		return Signal{Action: ActionBuy}
	}
	if prev >= 0 && hist < 0 {
		return Signal{Action: ActionSell}
	}
	return Hold
}

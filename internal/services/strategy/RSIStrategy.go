package strategy

import (
	"CryptoBacktester/internal/models"
	"CryptoBacktester/internal/services/indicators"
)

// RSIConfig parameterizes the RSI oscillator strategy: buy when RSI drops
// below the oversold threshold, sell when it rises above the overbought
// threshold.
type RSIConfig struct {
	Period     int     `json:"period"`
	Oversold   float64 `json:"oversold"`
	Overbought float64 `json:"overbought"`
}

func (c *RSIConfig) Kind() string {
	return KindRSI
}

func (c *RSIConfig) Validate() []ParamError {
	var errs []ParamError
	if c.Period < 5 || c.Period > 50 {
		errs = append(errs, ParamError{
			Field:   "period",
			Message: "period must be between 5 and 50",
		})
	}
	if c.Oversold < 10 || c.Oversold > 40 {
		errs = append(errs, ParamError{
			Field:   "oversold",
			Message: "oversold must be between 10 and 40",
		})
	}
	if c.Overbought < 60 || c.Overbought > 90 {
		errs = append(errs, ParamError{
			Field:   "overbought",
			Message: "overbought must be between 60 and 90",
		})
	}
	if c.Oversold >= c.Overbought {
		errs = append(errs, ParamError{
			Field:   "oversold",
			Message: "oversold must be strictly less than overbought",
		})
	}
	return errs
}

func (c *RSIConfig) NewStrategy() Strategy {
	return &RSIStrategy{
		rsi:        indicators.NewRSITracker(c.Period),
		oversold:   c.Oversold,
		overbought: c.Overbought,
	}
}

// RSIStrategy keeps Wilder-smoothed gain/loss averages over the configured
// period and emits Hold until the tracker has seen enough closes.
type RSIStrategy struct {
	rsi        *indicators.RSITracker
	oversold   float64
	overbought float64
}

func (s *RSIStrategy) Name() string {
	return KindRSI
}

func (s *RSIStrategy) Next(candle models.Price) Signal {
	s.rsi.Push(candle.Close)
	if !s.rsi.Ready() {
		return Hold
	}

	value := s.rsi.Value()
	if value <= s.oversold {
		return Signal{Action: ActionBuy}
	}
	if value >= s.overbought {
		return Signal{Action: ActionSell}
	}
	return Hold
}

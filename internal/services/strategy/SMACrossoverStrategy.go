package strategy

import (
	"CryptoBacktester/internal/models"
	"CryptoBacktester/internal/services/indicators"
)

// SMACrossoverConfig parameterizes a moving-average crossover: buy when the
// short SMA crosses above the long SMA, sell when it crosses below.
type SMACrossoverConfig struct {
	ShortPeriod int `json:"short_period"`
	LongPeriod  int `json:"long_period"`
}

func (c *SMACrossoverConfig) Kind() string {
	return KindSMACrossover
}

func (c *SMACrossoverConfig) Validate() []ParamError {
	var errs []ParamError
	if c.ShortPeriod < 2 || c.ShortPeriod > 100 {
		errs = append(errs, ParamError{
			Field:   "short_period",
			Message: "short_period must be between 2 and 100",
		})
	}
	if c.LongPeriod < 5 || c.LongPeriod > 300 {
		errs = append(errs, ParamError{
			Field:   "long_period",
			Message: "long_period must be between 5 and 300",
		})
	}
	if c.ShortPeriod >= c.LongPeriod {
		errs = append(errs, ParamError{
			Field:   "short_period",
			Message: "short_period must be strictly less than long_period",
		})
	}
	return errs
}

func (c *SMACrossoverConfig) NewStrategy() Strategy {
	return &SMACrossoverStrategy{
		short: indicators.NewSMAWindow(c.ShortPeriod),
		long:  indicators.NewSMAWindow(c.LongPeriod),
	}
}

// SMACrossoverStrategy holds two rolling means and the previous difference
// between them so a crossover can be detected without recomputing history.
type SMACrossoverStrategy struct {
	short *indicators.SMAWindow
	long  *indicators.SMAWindow

	prevDiff float64
	havePrev bool
}

func (s *SMACrossoverStrategy) Name() string {
	return KindSMACrossover
}

func (s *SMACrossoverStrategy) Next(candle models.Price) Signal {
	s.short.Push(candle.Close)
	s.long.Push(candle.Close)

	if !s.long.Full() {
		return Hold
	}

	diff := s.short.Value() - s.long.Value()
	if !s.havePrev {
		s.havePrev = true
		s.prevDiff = diff
		return Hold
	}

	prev := s.prevDiff
	s.prevDiff = diff

	if prev <= 0 && diff > 0 {
		return Signal{Action: ActionBuy}
	}
	if prev >= 0 && diff < 0 {
		return Signal{Action: ActionSell}
	}
	return Hold
}

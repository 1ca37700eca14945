package strategy

import (
	"CryptoBacktester/internal/models"
)

// DCAConfig parameterizes dollar-cost averaging: buy a fixed amount every
// fixed number of bars regardless of price.
type DCAConfig struct {
	IntervalDays int     `json:"interval_days"`
	AmountPerBuy float64 `json:"amount_per_buy"`
}

func (c *DCAConfig) Kind() string {
	return KindDCA
}

func (c *DCAConfig) Validate() []ParamError {
	var errs []ParamError
	if c.IntervalDays < 1 || c.IntervalDays > 90 {
		errs = append(errs, ParamError{
			Field:   "interval_days",
			Message: "interval_days must be between 1 and 90",
		})
	}
	if c.AmountPerBuy <= 0 {
		errs = append(errs, ParamError{
			Field:   "amount_per_buy",
			Message: "amount_per_buy must be positive",
		})
	}
	return errs
}

func (c *DCAConfig) NewStrategy() Strategy {
	return &DCAStrategy{
		interval: c.IntervalDays,
		amount:   c.AmountPerBuy,
		// First bar triggers a buy immediately
		barsSince: c.IntervalDays,
	}
}

// DCAStrategy buys on the first bar and on every interval-th bar after. It
// never sells; the position is marked to market at the end of the run.
type DCAStrategy struct {
	interval  int
	amount    float64
	barsSince int
}

func (s *DCAStrategy) Name() string {
	return KindDCA
}

func (s *DCAStrategy) Next(_ models.Price) Signal {
	if s.barsSince >= s.interval {
		s.barsSince = 1
		return Signal{Action: ActionBuy, Notional: s.amount}
	}
	s.barsSince++
	return Hold
}

package strategy

import (
	"math"

	"CryptoBacktester/internal/models"
)

// GridTradingConfig parameterizes a price-band grid between a lower and upper
// bound split into equal levels. Each downward band crossing buys a fixed
// amount; each upward crossing sells the position.
type GridTradingConfig struct {
	LowerPrice    float64 `json:"lower_price"`
	UpperPrice    float64 `json:"upper_price"`
	GridLevels    int     `json:"grid_levels"`
	AmountPerGrid float64 `json:"amount_per_grid"`
}

func (c *GridTradingConfig) Kind() string {
	return KindGridTrading
}

func (c *GridTradingConfig) Validate() []ParamError {
	var errs []ParamError
	if c.LowerPrice <= 0 {
		errs = append(errs, ParamError{
			Field:   "lower_price",
			Message: "lower_price must be positive",
		})
	}
	if c.UpperPrice <= c.LowerPrice {
		errs = append(errs, ParamError{
			Field:   "upper_price",
			Message: "upper_price must be strictly greater than lower_price",
		})
	}
	if c.GridLevels < 2 || c.GridLevels > 50 {
		errs = append(errs, ParamError{
			Field:   "grid_levels",
			Message: "grid_levels must be between 2 and 50",
		})
	}
	if c.AmountPerGrid <= 0 {
		errs = append(errs, ParamError{
			Field:   "amount_per_grid",
			Message: "amount_per_grid must be positive",
		})
	}
	return errs
}

func (c *GridTradingConfig) NewStrategy() Strategy {
	return &GridStrategy{
		lower:  c.LowerPrice,
		step:   (c.UpperPrice - c.LowerPrice) / float64(c.GridLevels),
		levels: c.GridLevels,
		amount: c.AmountPerGrid,
	}
}

// GridStrategy tracks which grid band the close sits in. A move to a lower
// band signals a buy, a move to a higher band signals a sell. The first bar
// only anchors the band.
type GridStrategy struct {
	lower  float64
	step   float64
	levels int
	amount float64

	anchored  bool
	lastLevel int
}

func (s *GridStrategy) Name() string {
	return KindGridTrading
}

func (s *GridStrategy) Next(candle models.Price) Signal {
	level := s.levelFor(candle.Close)

	if !s.anchored {
		s.anchored = true
		s.lastLevel = level
		return Hold
	}

	if level == s.lastLevel {
		return Hold
	}

	prev := s.lastLevel
	s.lastLevel = level

	if level < prev {
		return Signal{Action: ActionBuy, Notional: s.amount}
	}
	return Signal{Action: ActionSell}
}

// Private helper methods

func (s *GridStrategy) levelFor(price float64) int {
	level := int(math.Floor((price - s.lower) / s.step))
	if level < 0 {
		level = 0
	}
	if level > s.levels-1 {
		level = s.levels - 1
	}
	return level
}

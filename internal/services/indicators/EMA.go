package indicators

// EMAService provides Exponential Moving Average calculations
type EMAService struct{}

// NewEMAService creates a new EMA service instance
func NewEMAService() *EMAService {
	return &EMAService{}
}

// CalculateOne advances an EMA by a single value. Callers seed prevEMA with
// a simple average of the first period values before the first call.
func (s *EMAService) CalculateOne(price, prevEMA float64, period int) float64 {
	if period <= 0 {
		return prevEMA
	}
	return s.calculatePoint(price, prevEMA, s.getMultiplier(period))
}

// Private helper methods

func (s *EMAService) getMultiplier(period int) float64 {
	return 2.0 / float64(period+1)
}

func (s *EMAService) calculatePoint(price, prevEMA, multiplier float64) float64 {
	return (price-prevEMA)*multiplier + prevEMA
}

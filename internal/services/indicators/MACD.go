package indicators

// MACDTracker computes the MACD line, signal line, and histogram
// incrementally. Both EMAs are seeded with a simple average of their first
// period values; the signal line is an EMA over the MACD line seeded the
// same way.
type MACDTracker struct {
	ema *EMAService

	fastPeriod   int
	slowPeriod   int
	signalPeriod int

	count    int
	fastSum  float64
	slowSum  float64
	fastEMA  float64
	slowEMA  float64

	macdCount int
	signalSum float64
	signalEMA float64
	macd      float64
}

// NewMACDTracker creates a MACD tracker with the given periods
// (conventionally fast=12, slow=26, signal=9)
func NewMACDTracker(fastPeriod, slowPeriod, signalPeriod int) *MACDTracker {
	return &MACDTracker{
		ema:          NewEMAService(),
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		signalPeriod: signalPeriod,
	}
}

// Push feeds the next close price into the tracker
func (t *MACDTracker) Push(close float64) {
	t.count++

	// Fast EMA
	if t.count <= t.fastPeriod {
		t.fastSum += close
		if t.count == t.fastPeriod {
			t.fastEMA = t.fastSum / float64(t.fastPeriod)
		}
	} else {
		t.fastEMA = t.ema.CalculateOne(close, t.fastEMA, t.fastPeriod)
	}

	// Slow EMA
	if t.count <= t.slowPeriod {
		t.slowSum += close
		if t.count == t.slowPeriod {
			t.slowEMA = t.slowSum / float64(t.slowPeriod)
		}
	} else {
		t.slowEMA = t.ema.CalculateOne(close, t.slowEMA, t.slowPeriod)
	}

	if t.count < t.slowPeriod {
		return
	}

	// MACD line and signal line
	t.macd = t.fastEMA - t.slowEMA
	t.macdCount++
	if t.macdCount <= t.signalPeriod {
		t.signalSum += t.macd
		if t.macdCount == t.signalPeriod {
			t.signalEMA = t.signalSum / float64(t.signalPeriod)
		}
	} else {
		t.signalEMA = t.ema.CalculateOne(t.macd, t.signalEMA, t.signalPeriod)
	}
}

// Ready reports whether both the MACD and signal lines have values
func (t *MACDTracker) Ready() bool {
	return t.macdCount >= t.signalPeriod
}

// MACD returns the current MACD line value
func (t *MACDTracker) MACD() float64 {
	return t.macd
}

// Signal returns the current signal line value
func (t *MACDTracker) Signal() float64 {
	return t.signalEMA
}

// Histogram returns MACD minus signal, the crossover measure
func (t *MACDTracker) Histogram() float64 {
	return t.macd - t.signalEMA
}

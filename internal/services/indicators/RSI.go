package indicators

import "math"

// RSITracker computes the Relative Strength Index incrementally using
// Wilder's smoothing. The first period price changes seed the averages with
// a simple mean; later changes use the recursive smoothed form.
type RSITracker struct {
	period    int
	changes   int
	prevClose float64
	avgGain   float64
	avgLoss   float64
}

// NewRSITracker creates an RSI tracker for the given period
func NewRSITracker(period int) *RSITracker {
	return &RSITracker{period: period}
}

// Push feeds the next close price into the tracker
func (t *RSITracker) Push(close float64) {
	if t.changes == 0 && t.prevClose == 0 {
		t.prevClose = close
		return
	}

	change := close - t.prevClose
	t.prevClose = close

	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = math.Abs(change)
	}

	t.changes++
	if t.changes <= t.period {
		// Seed phase: accumulate a simple average
		t.avgGain += gain / float64(t.period)
		t.avgLoss += loss / float64(t.period)
		return
	}

	// Wilder smoothing
	t.avgGain = (t.avgGain*float64(t.period-1) + gain) / float64(t.period)
	t.avgLoss = (t.avgLoss*float64(t.period-1) + loss) / float64(t.period)
}

// Ready reports whether enough closes have been seen to produce an RSI value
func (t *RSITracker) Ready() bool {
	return t.changes >= t.period
}

// Value returns the current RSI in [0,100], or 0 before the tracker is ready
func (t *RSITracker) Value() float64 {
	if !t.Ready() {
		return 0
	}
	if t.avgLoss == 0 {
		return 100
	}
	rs := t.avgGain / t.avgLoss
	return 100 - (100 / (1 + rs))
}

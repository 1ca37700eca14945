package indicators

// SMAWindow maintains a rolling window of the last period values and their
// simple moving average. Pushing evicts the oldest value once full.
type SMAWindow struct {
	period int
	values []float64
	sum    float64
}

// NewSMAWindow creates a rolling window for the given period
func NewSMAWindow(period int) *SMAWindow {
	return &SMAWindow{
		period: period,
		values: make([]float64, 0, period),
	}
}

// Push adds a value to the window, evicting the oldest when full
func (w *SMAWindow) Push(v float64) {
	if len(w.values) == w.period {
		w.sum -= w.values[0]
		w.values = w.values[1:]
	}
	w.values = append(w.values, v)
	w.sum += v
}

// Full reports whether the window holds period values
func (w *SMAWindow) Full() bool {
	return len(w.values) == w.period
}

// Value returns the current simple moving average, or 0 before the window
// is full
func (w *SMAWindow) Value() float64 {
	if !w.Full() {
		return 0
	}
	return w.sum / float64(w.period)
}

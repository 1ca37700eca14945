package backtest

import (
	"math"
)

// Metrics holds the summary statistics derived from one run's equity curve
// and trade log.
type Metrics struct {
	TotalReturn    float64
	TotalReturnPct float64
	SharpeRatio    float64
	MaxDrawdown    float64
	MaxDrawdownPct float64
	Volatility     float64
	TotalTrades    int
	WinRate        float64
	FinalValue     float64
}

// CalculateMetrics is a pure function over the equity curve and trade log.
// Numeric edge cases (zero variance, zero trades) are normalized to zero
// rather than NaN or infinity so the report is always well-formed.
func CalculateMetrics(initialCapital float64, equity []DailyReturn, trades []Trade) Metrics {
	m := Metrics{
		TotalTrades: len(trades),
		FinalValue:  initialCapital,
	}
	if len(equity) > 0 {
		m.FinalValue = equity[len(equity)-1].PortfolioValue
	}

	m.TotalReturn = m.FinalValue - initialCapital
	m.TotalReturnPct = m.TotalReturn / initialCapital

	returns := barReturns(equity)
	mean := meanOf(returns)
	stddev := sampleStdDev(returns, mean)

	m.Volatility = stddev
	if stddev > 0 {
		// Excess return over a zero risk-free rate
		m.SharpeRatio = mean / stddev * math.Sqrt(AnnualizationFactor)
	}

	m.MaxDrawdown, m.MaxDrawdownPct = maxDrawdown(initialCapital, equity)
	m.WinRate = winRate(trades)

	return m
}

// Private helper methods

func barReturns(equity []DailyReturn) []float64 {
	if len(equity) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].PortfolioValue
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (equity[i].PortfolioValue-prev)/prev)
	}
	return returns
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values) - 1)
	return math.Sqrt(variance)
}

// maxDrawdown tracks the largest peak-to-trough decline with a running peak.
// The peak only moves on a strictly higher value, so the first of several
// equal peaks is the reference. Both numbers are non-positive.
func maxDrawdown(initialCapital float64, equity []DailyReturn) (currency, pct float64) {
	peak := initialCapital
	for _, point := range equity {
		if point.PortfolioValue > peak {
			peak = point.PortfolioValue
		}
		decline := point.PortfolioValue - peak
		if decline < currency {
			currency = decline
			pct = decline / peak
		}
	}
	return currency, pct
}

// winRate counts a closed (sell) trade as winning when its realized P&L is
// positive. The denominator is closed sells only; TotalTrades still counts
// every fill, buys included. No closed trades yields 0, not an error.
func winRate(trades []Trade) float64 {
	closed, wins := 0, 0
	for _, t := range trades {
		if t.Side != TradeSideSell {
			continue
		}
		closed++
		if t.RealizedPnL > 0 {
			wins++
		}
	}
	if closed == 0 {
		return 0
	}
	return float64(wins) / float64(closed)
}

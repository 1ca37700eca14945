package backtest

import (
	"fmt"
	"strconv"
	"time"

	"CryptoBacktester/internal/services/strategy"
)

const (
	MinInitialCapital = 100.0
	MaxInitialCapital = 1_000_000.0

	// Minimum history span so indicators can warm up and the statistics
	// have enough samples.
	MinSpanDays = 30

	// Simulation advances over daily bars.
	BarInterval = 24 * time.Hour

	// Crypto markets trade every day of the year.
	AnnualizationFactor = 365
)

// BacktestRequest describes a single simulation run. Immutable once the run
// starts.
type BacktestRequest struct {
	StrategyKind   string
	Config         strategy.Config
	Symbol         string
	StartDate      time.Time
	EndDate        time.Time
	InitialCapital float64

	// StopLossPct and TakeProfitPct are fractions of the average entry
	// price (e.g. 0.05 for 5%). Zero disables the check.
	StopLossPct   float64
	TakeProfitPct float64
}

// Trade is an immutable record of one executed fill.
type Trade struct {
	Timestamp time.Time
	Side      string
	Price     float64
	Quantity  float64

	// Ledger snapshot after the fill
	CashAfter     float64
	PositionAfter float64

	// RealizedPnL is set on sells, zero on buys
	RealizedPnL float64
	Reason      string
}

const (
	TradeSideBuy  = "buy"
	TradeSideSell = "sell"

	TradeReasonSignal     = "signal"
	TradeReasonStopLoss   = "stop_loss"
	TradeReasonTakeProfit = "take_profit"
)

// Date marshals as the dashboard wire format YYYY-MM-DD.
type Date time.Time

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Time(d).Format("2006-01-02"))), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

func (d Date) Time() time.Time {
	return time.Time(d)
}

// DailyReturn is one equity-curve point, appended every bar whether or not a
// trade happened. ReturnPct is the mark-to-market return relative to the
// initial capital, as a fraction.
type DailyReturn struct {
	Date           Date    `json:"date"`
	PortfolioValue float64 `json:"portfolio_value"`
	ReturnPct      float64 `json:"return_percentage"`
}

// PortfolioState is the mutable ledger owned exclusively by one Simulator
// run. It is never shared across runs.
type PortfolioState struct {
	Cash          float64
	Quantity      float64
	AvgEntryPrice float64
	RealizedPnL   float64
	UnrealizedPnL float64
}

// Value returns the mark-to-market portfolio value at the given price
func (p *PortfolioState) Value(price float64) float64 {
	return p.Cash + p.Quantity*price
}

// SimulationResult is the raw output of one Simulator run, before metrics.
type SimulationResult struct {
	Trades      []Trade
	EquityCurve []DailyReturn
	Portfolio   PortfolioState
	FinalValue  float64
}

// BacktestResult is the response contract consumed by the dashboard.
// Percentages are fractions; MaxDrawdown values are non-positive.
type BacktestResult struct {
	TotalReturn    float64       `json:"total_return"`
	TotalReturnPct float64       `json:"total_return_percentage"`
	SharpeRatio    float64       `json:"sharpe_ratio"`
	MaxDrawdown    float64       `json:"max_drawdown"`
	MaxDrawdownPct float64       `json:"max_drawdown_percentage"`
	TotalTrades    int           `json:"total_trades"`
	WinRate        float64       `json:"win_rate"`
	FinalBalance   float64       `json:"final_balance"`
	InitialBalance float64       `json:"initial_balance"`
	Volatility     float64       `json:"volatility"`
	StartDate      Date          `json:"start_date"`
	EndDate        Date          `json:"end_date"`
	DailyReturns   []DailyReturn `json:"daily_returns"`
}

// DataError reports missing or malformed price history, distinct from
// request validation so callers can tell bad input from bad data
// availability.
type DataError struct {
	Symbol string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("price data error for %s: %s", e.Symbol, e.Reason)
}

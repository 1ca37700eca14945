package backtest

// BuildResult shapes the simulation output and metrics into the response
// contract. It performs no computation of its own.
func BuildResult(req BacktestRequest, sim *SimulationResult, m Metrics) *BacktestResult {
	return &BacktestResult{
		TotalReturn:    m.TotalReturn,
		TotalReturnPct: m.TotalReturnPct,
		SharpeRatio:    m.SharpeRatio,
		MaxDrawdown:    m.MaxDrawdown,
		MaxDrawdownPct: m.MaxDrawdownPct,
		TotalTrades:    m.TotalTrades,
		WinRate:        m.WinRate,
		FinalBalance:   m.FinalValue,
		InitialBalance: req.InitialCapital,
		Volatility:     m.Volatility,
		StartDate:      Date(req.StartDate),
		EndDate:        Date(req.EndDate),
		DailyReturns:   sim.EquityCurve,
	}
}

package backtest

import (
	"context"

	"CryptoBacktester/internal/models"
	"CryptoBacktester/internal/services/strategy"
)

type runState string

const (
	stateWarmingUp runState = "warming_up"
	stateActive    runState = "active"
	stateClosed    runState = "closed"
)

// Simulator replays one strategy bar-by-bar over a historical series and
// maintains the run's portfolio ledger. One instance per run; never reused.
type Simulator struct {
	strategy      strategy.Strategy
	stopLossPct   float64
	takeProfitPct float64

	state     runState
	initial   float64
	portfolio PortfolioState
	trades    []Trade
	equity    []DailyReturn
}

// NewSimulator creates a simulator holding the request's initial capital in
// cash.
func NewSimulator(strat strategy.Strategy, req BacktestRequest) *Simulator {
	return &Simulator{
		strategy:      strat,
		stopLossPct:   req.StopLossPct,
		takeProfitPct: req.TakeProfitPct,
		state:         stateWarmingUp,
		initial:       req.InitialCapital,
		portfolio:     PortfolioState{Cash: req.InitialCapital},
	}
}

// Run advances through the candles in order. Cancellation is checked between
// bars; a cancelled run returns ctx.Err() and no result. At the end of the
// series any open position stays marked to market at the final close.
func (s *Simulator) Run(ctx context.Context, candles []models.Price) (*SimulationResult, error) {
	for _, candle := range candles {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// Stop-loss/take-profit take precedence over the strategy signal
		if s.portfolio.Quantity > 0 {
			s.checkForcedExit(candle)
		}

		signal := s.strategy.Next(candle)
		if s.state == stateWarmingUp && signal.Action != strategy.ActionHold {
			s.state = stateActive
		}
		if s.state == stateActive {
			s.applySignal(signal, candle)
		}

		s.markToMarket(candle)
	}

	s.state = stateClosed

	finalValue := s.initial
	if len(s.equity) > 0 {
		finalValue = s.equity[len(s.equity)-1].PortfolioValue
	}

	return &SimulationResult{
		Trades:      s.trades,
		EquityCurve: s.equity,
		Portfolio:   s.portfolio,
		FinalValue:  finalValue,
	}, nil
}

// Private helper methods

// checkForcedExit closes the position at the bar close when the stop-loss or
// take-profit threshold was crossed intrabar. Stop-loss wins when both
// trigger in the same bar.
func (s *Simulator) checkForcedExit(candle models.Price) {
	entry := s.portfolio.AvgEntryPrice
	if s.stopLossPct > 0 && candle.Low <= entry*(1-s.stopLossPct) {
		s.sell(candle, TradeReasonStopLoss)
		return
	}
	if s.takeProfitPct > 0 && candle.High >= entry*(1+s.takeProfitPct) {
		s.sell(candle, TradeReasonTakeProfit)
	}
}

func (s *Simulator) applySignal(signal strategy.Signal, candle models.Price) {
	switch signal.Action {
	case strategy.ActionBuy:
		s.buy(signal.Notional, candle)
	case strategy.ActionSell:
		if s.portfolio.Quantity > 0 {
			s.sell(candle, TradeReasonSignal)
		}
	}
}

// buy opens or adds to the position at the bar close. A buy that would
// overdraw cash is skipped entirely: no Trade is recorded and the equity
// curve is unchanged.
func (s *Simulator) buy(notional float64, candle models.Price) {
	if notional == 0 {
		notional = s.portfolio.Cash
	}
	if notional <= 0 || notional > s.portfolio.Cash {
		return
	}

	price := candle.Close
	quantity := notional / price

	held := s.portfolio.Quantity
	if held > 0 {
		s.portfolio.AvgEntryPrice = (s.portfolio.AvgEntryPrice*held + price*quantity) / (held + quantity)
	} else {
		s.portfolio.AvgEntryPrice = price
	}
	s.portfolio.Quantity = held + quantity
	s.portfolio.Cash -= notional

	s.trades = append(s.trades, Trade{
		Timestamp:     candle.OpenTime,
		Side:          TradeSideBuy,
		Price:         price,
		Quantity:      quantity,
		CashAfter:     s.portfolio.Cash,
		PositionAfter: s.portfolio.Quantity,
		Reason:        TradeReasonSignal,
	})
}

// sell closes the position entirely at the bar close and realizes P&L.
func (s *Simulator) sell(candle models.Price, reason string) {
	price := candle.Close
	quantity := s.portfolio.Quantity
	realized := (price - s.portfolio.AvgEntryPrice) * quantity

	s.portfolio.Cash += quantity * price
	s.portfolio.Quantity = 0
	s.portfolio.AvgEntryPrice = 0
	s.portfolio.RealizedPnL += realized

	s.trades = append(s.trades, Trade{
		Timestamp:     candle.OpenTime,
		Side:          TradeSideSell,
		Price:         price,
		Quantity:      quantity,
		CashAfter:     s.portfolio.Cash,
		PositionAfter: 0,
		RealizedPnL:   realized,
		Reason:        reason,
	})
}

// markToMarket appends the bar's equity point regardless of trade activity.
func (s *Simulator) markToMarket(candle models.Price) {
	s.portfolio.UnrealizedPnL = (candle.Close - s.portfolio.AvgEntryPrice) * s.portfolio.Quantity
	value := s.portfolio.Value(candle.Close)

	s.equity = append(s.equity, DailyReturn{
		Date:           Date(candle.OpenTime),
		PortfolioValue: value,
		ReturnPct:      (value - s.initial) / s.initial,
	})
}

package models

import (
	"time"
)

// BacktestRun stores the summary of a completed backtest so the dashboard
// can list past runs without re-simulating.
type BacktestRun struct {
	ID           uint      `gorm:"primaryKey"`
	StrategyKind string    `gorm:"index;not null"`
	Symbol       string    `gorm:"index;not null"`
	StartDate    time.Time `gorm:"not null"`
	EndDate      time.Time `gorm:"not null"`

	InitialBalance float64 `gorm:"type:decimal(20,8);not null"`
	FinalBalance   float64 `gorm:"type:decimal(20,8);not null"`

	TotalReturn        float64 `gorm:"type:decimal(20,8)"`
	TotalReturnPct     float64 `gorm:"type:decimal(20,8)"`
	SharpeRatio        float64 `gorm:"type:decimal(20,8)"`
	MaxDrawdown        float64 `gorm:"type:decimal(20,8)"`
	MaxDrawdownPct     float64 `gorm:"type:decimal(20,8)"`
	Volatility         float64 `gorm:"type:decimal(20,8)"`
	TotalTrades        int
	WinRate            float64 `gorm:"type:decimal(20,8)"`

	// Equity curve serialized as JSON, one point per bar.
	EquityCurve string `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName sets the table name for BacktestRun model
func (BacktestRun) TableName() string {
	return "backtest_runs"
}

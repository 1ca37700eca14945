package strategy

import (
	"encoding/json"
	"fmt"

	"CryptoBacktester/internal/models"
)

type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Signal is a single per-bar trading decision.
type Signal struct {
	Action Action
	// Notional is the cash amount to deploy on a buy. Zero means all
	// available cash. Ignored for sell and hold.
	Notional float64
}

// Hold is the neutral signal emitted during warm-up and when no setup exists.
var Hold = Signal{Action: ActionHold}

// Strategy consumes one candle at a time and emits a signal. Implementations
// keep only rolling state over current and past candles, so a signal at bar t
// can never depend on later bars.
type Strategy interface {
	Name() string
	Next(candle models.Price) Signal
}

// ParamError describes a single out-of-range or cross-field violation in a
// strategy configuration.
type ParamError struct {
	Field   string
	Message string
}

// Config is the tagged variant over strategy kinds. Each kind carries its own
// parameters, validates them, and builds a fresh Strategy with zeroed rolling
// state for one backtest run.
type Config interface {
	Kind() string
	Validate() []ParamError
	NewStrategy() Strategy
}

const (
	KindDCA          = "dca"
	KindGridTrading  = "grid_trading"
	KindSMACrossover = "sma_crossover"
	KindRSI          = "rsi"
	KindMACD         = "macd"
)

// Kinds lists the supported strategy kinds
func Kinds() []string {
	return []string{KindDCA, KindGridTrading, KindSMACrossover, KindRSI, KindMACD}
}

// ParseConfig decodes the kind-specific parameter object into the matching
// Config variant.
func ParseConfig(kind string, raw json.RawMessage) (Config, error) {
	var cfg Config
	switch kind {
	case KindDCA:
		cfg = &DCAConfig{}
	case KindGridTrading:
		cfg = &GridTradingConfig{}
	case KindSMACrossover:
		cfg = &SMACrossoverConfig{}
	case KindRSI:
		cfg = &RSIConfig{}
	case KindMACD:
		cfg = &MACDConfig{}
	default:
		return nil, fmt.Errorf("unknown strategy kind: %q", kind)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("invalid %s config: %w", kind, err)
		}
	}
	return cfg, nil
}

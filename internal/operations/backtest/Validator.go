package backtest

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the full list of violations for a request. Validation
// never short-circuits, so the caller gets every problem in one response.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return "invalid backtest request: " + strings.Join(msgs, "; ")
}

// Validate checks a request against all date, capital, and strategy
// parameter rules before any simulation work begins. It has no side effects
// and returns nil when the request is acceptable.
func Validate(req BacktestRequest, now time.Time) ValidationErrors {
	var errs ValidationErrors

	if req.Symbol == "" {
		errs = append(errs, ValidationError{
			Field:   "asset_symbol",
			Message: "asset_symbol is required",
		})
	}

	if !req.StartDate.Before(req.EndDate) {
		errs = append(errs, ValidationError{
			Field:   "start_date",
			Message: "start_date must be before end_date",
		})
	}
	if req.EndDate.After(now) {
		errs = append(errs, ValidationError{
			Field:   "end_date",
			Message: "end_date must not be in the future",
		})
	}
	if req.StartDate.Before(req.EndDate) &&
		req.EndDate.Sub(req.StartDate) < MinSpanDays*BarInterval {
		errs = append(errs, ValidationError{
			Field:   "end_date",
			Message: fmt.Sprintf("history span must be at least %d days", MinSpanDays),
		})
	}

	if req.InitialCapital < MinInitialCapital || req.InitialCapital > MaxInitialCapital {
		errs = append(errs, ValidationError{
			Field: "initial_capital",
			Message: fmt.Sprintf("initial_capital must be between %.0f and %.0f",
				MinInitialCapital, MaxInitialCapital),
		})
	}

	if req.StopLossPct < 0 || req.StopLossPct >= 1 {
		errs = append(errs, ValidationError{
			Field:   "stop_loss_pct",
			Message: "stop_loss_pct must be a fraction in [0, 1)",
		})
	}
	if req.TakeProfitPct < 0 {
		errs = append(errs, ValidationError{
			Field:   "take_profit_pct",
			Message: "take_profit_pct must not be negative",
		})
	}

	if req.Config == nil {
		errs = append(errs, ValidationError{
			Field:   "config",
			Message: "strategy config is required",
		})
	} else {
		for _, pe := range req.Config.Validate() {
			errs = append(errs, ValidationError{
				Field:   "config." + pe.Field,
				Message: pe.Message,
			})
		}
	}

	return errs
}

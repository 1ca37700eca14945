package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"CryptoBacktester/internal/models"
	"CryptoBacktester/internal/operations/backtest"
	"CryptoBacktester/internal/repositories"
	"CryptoBacktester/internal/services/strategy"

	"github.com/gin-gonic/gin"
)

type BacktestHandler struct {
	engine       *backtest.Engine
	backtestRepo *repositories.BacktestRepository
}

func NewBacktestHandler(engine *backtest.Engine, backtestRepo *repositories.BacktestRepository) *BacktestHandler {
	return &BacktestHandler{
		engine:       engine,
		backtestRepo: backtestRepo,
	}
}

// Register mounts the backtest routes
func (h *BacktestHandler) Register(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.POST("/backtest", h.RunBacktest)
	api.GET("/backtests", h.ListBacktests)
	api.GET("/backtests/:id", h.GetBacktest)
	api.GET("/strategies", h.ListStrategies)
}

type backtestRequestBody struct {
	StrategyKind   string          `json:"strategy_kind"`
	Config         json.RawMessage `json:"config"`
	AssetSymbol    string          `json:"asset_symbol"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	InitialCapital float64         `json:"initial_capital"`
	StopLossPct    float64         `json:"stop_loss_pct"`
	TakeProfitPct  float64         `json:"take_profit_pct"`
}

// RunBacktest runs one simulation and returns the result contract
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var body backtestRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	req, err := h.buildRequest(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.engine.Run(c.Request.Context(), req)
	if err != nil {
		h.writeRunError(c, err)
		return
	}

	h.persistRun(req, result)
	c.JSON(http.StatusOK, result)
}

// ListBacktests returns recent completed runs, newest first
func (h *BacktestHandler) ListBacktests(c *gin.Context) {
	limit := 20
	if q := c.Query("limit"); q != "" {
		if n, err := parsePositiveInt(q); err == nil {
			limit = n
		}
	}

	runs, err := h.backtestRepo.FindRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load backtest history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": runs})
}

// GetBacktest returns one stored run by id
func (h *BacktestHandler) GetBacktest(c *gin.Context) {
	id, err := parsePositiveInt(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return
	}

	run, err := h.backtestRepo.FindByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load backtest run"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "backtest run not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": run})
}

// ListStrategies returns the supported strategy kinds and their parameter
// bounds, consumed by the dashboard's configuration forms
func (h *BacktestHandler) ListStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": strategyCatalog()})
}

// Private helper methods

func (h *BacktestHandler) buildRequest(body backtestRequestBody) (backtest.BacktestRequest, error) {
	var req backtest.BacktestRequest

	start, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		return req, errors.New("start_date must be formatted as YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", body.EndDate)
	if err != nil {
		return req, errors.New("end_date must be formatted as YYYY-MM-DD")
	}

	cfg, err := strategy.ParseConfig(body.StrategyKind, body.Config)
	if err != nil {
		return req, err
	}

	return backtest.BacktestRequest{
		StrategyKind:   body.StrategyKind,
		Config:         cfg,
		Symbol:         body.AssetSymbol,
		StartDate:      start,
		EndDate:        end,
		InitialCapital: body.InitialCapital,
		StopLossPct:    body.StopLossPct,
		TakeProfitPct:  body.TakeProfitPct,
	}, nil
}

func (h *BacktestHandler) writeRunError(c *gin.Context, err error) {
	var verrs backtest.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": verrs})
		return
	}

	var derr *backtest.DataError
	if errors.As(err, &derr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": derr.Error()})
		return
	}

	if errors.Is(err, context.Canceled) {
		// Caller went away mid-run; nothing useful to write
		c.Abort()
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "backtest timed out"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "backtest failed"})
}

// persistRun stores the run summary for the history panel. Persistence
// failures are logged, not surfaced; the result is already computed.
func (h *BacktestHandler) persistRun(req backtest.BacktestRequest, result *backtest.BacktestResult) {
	if h.backtestRepo == nil {
		return
	}

	curve, err := json.Marshal(result.DailyReturns)
	if err != nil {
		log.Printf("Error serializing equity curve: %v", err)
		return
	}

	run := &models.BacktestRun{
		StrategyKind:   req.StrategyKind,
		Symbol:         req.Symbol,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		InitialBalance: result.InitialBalance,
		FinalBalance:   result.FinalBalance,
		TotalReturn:    result.TotalReturn,
		TotalReturnPct: result.TotalReturnPct,
		SharpeRatio:    result.SharpeRatio,
		MaxDrawdown:    result.MaxDrawdown,
		MaxDrawdownPct: result.MaxDrawdownPct,
		Volatility:     result.Volatility,
		TotalTrades:    result.TotalTrades,
		WinRate:        result.WinRate,
		EquityCurve:    string(curve),
	}
	if err := h.backtestRepo.Create(run); err != nil {
		log.Printf("Error saving backtest run: %v", err)
	}
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("not positive")
	}
	return n, nil
}

func strategyCatalog() []gin.H {
	return []gin.H{
		{"kind": strategy.KindDCA, "params": gin.H{
			"interval_days":  "1-90",
			"amount_per_buy": "> 0",
		}},
		{"kind": strategy.KindGridTrading, "params": gin.H{
			"lower_price":     "> 0",
			"upper_price":     "> lower_price",
			"grid_levels":     "2-50",
			"amount_per_grid": "> 0",
		}},
		{"kind": strategy.KindSMACrossover, "params": gin.H{
			"short_period": "2-100",
			"long_period":  "5-300, > short_period",
		}},
		{"kind": strategy.KindRSI, "params": gin.H{
			"period":     "5-50",
			"oversold":   "10-40, < overbought",
			"overbought": "60-90",
		}},
		{"kind": strategy.KindMACD, "params": gin.H{
			"fast_period":   "2-50, < slow_period",
			"slow_period":   "5-100",
			"signal_period": "2-50",
		}},
	}
}

package handlers

import (
	"net/http"
	"time"

	"CryptoBacktester/internal/operations/price"

	"github.com/gin-gonic/gin"
)

type PriceHandler struct {
	history *price.HistoryService
}

func NewPriceHandler(history *price.HistoryService) *PriceHandler {
	return &PriceHandler{history: history}
}

// Register mounts the price routes
func (h *PriceHandler) Register(router *gin.Engine) {
	router.GET("/api/v1/prices", h.GetPrices)
}

// GetPrices returns the daily candles for a symbol and range, the series the
// dashboard charts alongside a backtest's equity curve
func (h *PriceHandler) GetPrices(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be formatted as YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be formatted as YYYY-MM-DD"})
		return
	}

	prices, err := h.history.GetPriceHistory(c.Request.Context(), symbol, start, end)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load price history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": prices})
}

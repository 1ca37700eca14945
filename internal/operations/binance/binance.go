package binance

import (
	"context"
	"math"
	"net/http"
	"time"

	gobinance "github.com/adshao/go-binance/v2"
	"golang.org/x/time/rate"
)

type BinanceClient struct {
	client      *gobinance.Client
	rateLimiter *rate.Limiter
	httpClient  *http.Client
}

func NewBinanceClient(apiKey, secretKey string) *BinanceClient {
	// Create custom HTTP client with timeouts
	httpClient := &http.Client{
		Timeout: time.Second * 10,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	client := gobinance.NewClient(apiKey, secretKey)
	client.HTTPClient = httpClient

	// Rate limiter: 10 requests per second with burst of 20
	limiter := rate.NewLimiter(rate.Limit(10), 20)

	return &BinanceClient{
		client:      client,
		rateLimiter: limiter,
		httpClient:  httpClient,
	}
}

// GetKlines fetches candles with rate limiting and retry with exponential
// backoff. Times are unix milliseconds.
func (c *BinanceClient) GetKlines(ctx context.Context, symbol, interval string, startTime, endTime int64) ([]*gobinance.Kline, error) {
	var klines []*gobinance.Kline
	var err error
	maxRetries := 3
	backoff := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err = c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		klines, err = c.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(startTime).
			EndTime(endTime).
			Limit(500).
			Do(ctx)
		if err == nil {
			return klines, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = time.Duration(float64(backoff) * math.Pow(2, float64(attempt)))
	}

	return nil, err
}

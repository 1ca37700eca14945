package price

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"CryptoBacktester/internal/models"
	"CryptoBacktester/internal/operations/binance"

	gobinance "github.com/adshao/go-binance/v2"
)

type PriceFetcher struct {
	client *binance.BinanceClient
}

func NewPriceFetcher(client *binance.BinanceClient) *PriceFetcher {
	return &PriceFetcher{client: client}
}

// FetchDaily pulls daily candles for one symbol across the range in
// 500-candle chunks (Binance's max page size).
func (f *PriceFetcher) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]models.Price, error) {
	var allPrices []models.Price

	chunkDuration := 500 * 24 * time.Hour
	currentStart := start
	for currentStart.Before(end) {
		currentEnd := currentStart.Add(chunkDuration)
		if currentEnd.After(end) {
			currentEnd = end
		}

		klines, err := f.client.GetKlines(ctx, symbol, models.PriceTimeFrame1d,
			currentStart.UnixMilli(), currentEnd.UnixMilli())
		if err != nil {
			return nil, err
		}

		for _, k := range klines {
			candle, err := parseKline(symbol, k)
			if err != nil {
				return nil, err
			}
			allPrices = append(allPrices, candle)
		}

		log.Printf("Fetched %d daily candles for %s from %s to %s",
			len(klines), symbol,
			currentStart.Format("2006-01-02"),
			currentEnd.Format("2006-01-02"))

		currentStart = currentEnd
	}

	return allPrices, nil
}

// parseKline converts one exchange kline into a Price. A field that fails to
// parse is an error, never a zero candle.
func parseKline(symbol string, k *gobinance.Kline) (models.Price, error) {
	raw := []string{k.Open, k.High, k.Low, k.Close, k.Volume}
	vals := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Price{}, fmt.Errorf("malformed kline field %q for %s: %w", s, symbol, err)
		}
		vals[i] = v
	}

	return models.Price{
		Symbol:     symbol,
		TimeFrame:  models.PriceTimeFrame1d,
		OpenTime:   time.Unix(k.OpenTime/1000, 0).UTC(),
		CloseTime:  time.Unix(k.CloseTime/1000, 0).UTC(),
		Open:       vals[0],
		High:       vals[1],
		Low:        vals[2],
		Close:      vals[3],
		Volume:     vals[4],
		TradeCount: k.TradeNum,
	}, nil
}

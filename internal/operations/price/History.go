package price

import (
	"context"
	"time"

	"CryptoBacktester/internal/models"
	"CryptoBacktester/internal/repositories"
)

// HistoryService serves ordered daily price series for backtests. It reads
// from the repository first and falls back to fetching and recording from
// the exchange when the stored range is incomplete.
type HistoryService struct {
	fetcher   *PriceFetcher
	recorder  *PriceRecorder
	priceRepo *repositories.PriceRepository
}

func NewHistoryService(fetcher *PriceFetcher, recorder *PriceRecorder, priceRepo *repositories.PriceRepository) *HistoryService {
	return &HistoryService{
		fetcher:   fetcher,
		recorder:  recorder,
		priceRepo: priceRepo,
	}
}

// GetPriceHistory returns the daily candles for [start, end], ordered by
// open time.
func (s *HistoryService) GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) ([]models.Price, error) {
	prices, err := s.priceRepo.GetPricesByTimeFrame(symbol, models.PriceTimeFrame1d, start, end)
	if err != nil {
		return nil, err
	}

	expected := int(end.Sub(start)/(24*time.Hour)) + 1
	if len(prices) >= expected {
		return prices, nil
	}

	fetched, err := s.fetcher.FetchDaily(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if err := s.recorder.Record(fetched); err != nil {
		return nil, err
	}

	return s.priceRepo.GetPricesByTimeFrame(symbol, models.PriceTimeFrame1d, start, end)
}

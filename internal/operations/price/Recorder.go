package price

import (
	"log"

	"CryptoBacktester/internal/models"
	"CryptoBacktester/internal/repositories"
)

type PriceRecorder struct {
	priceRepo *repositories.PriceRepository
}

func NewPriceRecorder(priceRepo *repositories.PriceRepository) *PriceRecorder {
	return &PriceRecorder{priceRepo: priceRepo}
}

// Record persists a fetched batch, skipping candles already stored for the
// same symbol and open time.
func (r *PriceRecorder) Record(prices []models.Price) error {
	if len(prices) == 0 {
		return nil
	}

	saved := 0
	for i := range prices {
		exists, err := r.priceRepo.Exists(prices[i].Symbol, prices[i].TimeFrame, prices[i].OpenTime)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := r.priceRepo.Create(&prices[i]); err != nil {
			return err
		}
		saved++
	}

	log.Printf("Recorded %d/%d candles for %s", saved, len(prices), prices[0].Symbol)
	return nil
}

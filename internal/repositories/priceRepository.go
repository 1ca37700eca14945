package repositories

import (
	"errors"
	"time"

	"CryptoBacktester/internal/models"

	"gorm.io/gorm"
)

type PriceRepository struct {
	db *gorm.DB
}

// NewPriceRepository creates a new instance of PriceRepository
func NewPriceRepository(db *gorm.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// Create adds a new Price record to the database
func (r *PriceRepository) Create(price *models.Price) error {
	if price == nil {
		return errors.New("price cannot be nil")
	}
	return r.db.Create(price).Error
}

// Exists reports whether a candle is already stored for the symbol,
// timeframe and open time
func (r *PriceRepository) Exists(symbol, timeFrame string, openTime time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Price{}).
		Where("symbol = ? AND time_frame = ? AND open_time = ?", symbol, timeFrame, openTime).
		Count(&count).Error
	return count > 0, err
}

// GetPricesByTimeFrame gets price data for a specific symbol and timeframe
func (r *PriceRepository) GetPricesByTimeFrame(symbol, timeFrame string, start, end time.Time) ([]models.Price, error) {
	if symbol == "" || timeFrame == "" {
		return nil, errors.New("invalid symbol or timeframe")
	}

	var prices []models.Price
	err := r.db.Where("symbol = ? AND time_frame = ? AND open_time BETWEEN ? AND ?",
		symbol, timeFrame, start, end).
		Order("open_time ASC").
		Find(&prices).Error
	return prices, err
}

// GetLatestPriceByTimeFrame gets the most recent candle for a symbol and
// timeframe
func (r *PriceRepository) GetLatestPriceByTimeFrame(symbol, timeFrame string) (*models.Price, error) {
	if symbol == "" || timeFrame == "" {
		return nil, errors.New("invalid symbol or timeframe")
	}

	var price models.Price
	err := r.db.Where("symbol = ? AND time_frame = ?", symbol, timeFrame).
		Order("open_time DESC").
		First(&price).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return &price, err
}

package repositories

import (
	"errors"

	"CryptoBacktester/internal/models"

	"gorm.io/gorm"
)

type BacktestRepository struct {
	db *gorm.DB
}

// NewBacktestRepository creates a new instance of BacktestRepository
func NewBacktestRepository(db *gorm.DB) *BacktestRepository {
	return &BacktestRepository{db: db}
}

// Create adds a new BacktestRun record to the database
func (r *BacktestRepository) Create(run *models.BacktestRun) error {
	if run == nil {
		return errors.New("run cannot be nil")
	}
	return r.db.Create(run).Error
}

// FindByID retrieves a BacktestRun record by its ID
func (r *BacktestRepository) FindByID(id uint) (*models.BacktestRun, error) {
	if id == 0 {
		return nil, errors.New("invalid id")
	}
	var run models.BacktestRun
	err := r.db.First(&run, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return &run, err
}

// FindRecent retrieves the most recent runs, newest first
func (r *BacktestRepository) FindRecent(limit int) ([]models.BacktestRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []models.BacktestRun
	err := r.db.Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

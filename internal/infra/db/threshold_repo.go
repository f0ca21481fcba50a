package db

import (
	"context"
	"fmt"
	"math/big"

	"github.com/jcarcaboso/gas-alerts/internal/domain"
	"gorm.io/gorm"
)

type ThresholdRepository struct {
	db *gorm.DB
}

func NewThresholdRepository(db *gorm.DB) *ThresholdRepository {
	return &ThresholdRepository{db: db}
}

func (r *ThresholdRepository) List(ctx context.Context) ([]*big.Int, error) {
	var models []thresholdModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapThresholdsToDomain(models)
}

func (r *ThresholdRepository) Append(ctx context.Context, wei *big.Int) error {
	model := thresholdModel{Wei: wei.String()}
	return r.db.WithContext(ctx).Create(&model).Error
}

// Seed inserts wei when the table is empty. The exclusive table lock keeps
// two concurrent seeders from both inserting.
func (r *ThresholdRepository) Seed(ctx context.Context, wei *big.Int) (bool, error) {
	seeded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("LOCK TABLE gas_thresholds IN EXCLUSIVE MODE").Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&thresholdModel{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(&thresholdModel{Wei: wei.String()}).Error; err != nil {
			return err
		}
		seeded = true
		return nil
	})
	return seeded, err
}

func mapThresholdsToDomain(models []thresholdModel) ([]*big.Int, error) {
	thresholds := make([]*big.Int, 0, len(models))
	for _, model := range models {
		wei, ok := new(big.Int).SetString(model.Wei, 10)
		if !ok || wei.Sign() < 0 {
			return nil, fmt.Errorf("%w: row %d holds %q", domain.ErrThresholdsUnreadable, model.ID, model.Wei)
		}
		thresholds = append(thresholds, wei)
	}
	return thresholds, nil
}

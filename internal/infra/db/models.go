package db

import (
	"time"
)

// thresholdModel stores one wei amount per row; id order is insertion order.
type thresholdModel struct {
	ID        uint   `gorm:"primaryKey"`
	Wei       string `gorm:"type:numeric(78,0);not null"`
	CreatedAt time.Time
}

func (thresholdModel) TableName() string {
	return "gas_thresholds"
}

package domain

import (
	"context"
	"errors"
	"math/big"
)

var ErrThresholdsUnreadable = errors.New("stored thresholds are unreadable")

// ThresholdRepository keeps the ordered list of alert thresholds in wei.
// Implementations must make Append and Seed atomic with respect to each other.
type ThresholdRepository interface {
	List(ctx context.Context) ([]*big.Int, error)
	Append(ctx context.Context, wei *big.Int) error
	Seed(ctx context.Context, wei *big.Int) (bool, error)
}

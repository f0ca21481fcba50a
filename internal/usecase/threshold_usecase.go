package usecase

import (
	"context"
	"math/big"

	"github.com/jcarcaboso/gas-alerts/internal/domain"
)

type ThresholdUsecase struct {
	thresholds domain.ThresholdRepository
	defaultWei *big.Int
}

func NewThresholdUsecase(thresholds domain.ThresholdRepository, defaultWei *big.Int) *ThresholdUsecase {
	return &ThresholdUsecase{thresholds: thresholds, defaultWei: defaultWei}
}

// SetAlert stores gwei converted to wei at the end of the list.
func (u *ThresholdUsecase) SetAlert(ctx context.Context, gwei uint64) (*big.Int, error) {
	wei := domain.GweiToWei(gwei)
	if err := u.thresholds.Append(ctx, wei); err != nil {
		return nil, err
	}
	return wei, nil
}

func (u *ThresholdUsecase) ListAlerts(ctx context.Context) ([]*big.Int, error) {
	return u.thresholds.List(ctx)
}

// EnsureDefault seeds the default threshold into an empty store.
func (u *ThresholdUsecase) EnsureDefault(ctx context.Context) (bool, error) {
	return u.thresholds.Seed(ctx, u.defaultWei)
}

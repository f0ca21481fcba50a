package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/jcarcaboso/gas-alerts/internal/domain"
)

var ErrGasPriceUnavailable = errors.New("gas price unavailable")

type GasReading struct {
	Wei *big.Int
}

// Gwei is the truncated whole-gwei display value.
func (r GasReading) Gwei() string {
	return domain.WeiToGwei(r.Wei).String()
}

type GasUsecase struct {
	provider domain.GasPriceProvider
}

func NewGasUsecase(provider domain.GasPriceProvider) *GasUsecase {
	return &GasUsecase{provider: provider}
}

func (u *GasUsecase) CurrentPrice(ctx context.Context) (GasReading, error) {
	wei, err := u.provider.SuggestGasPrice(ctx)
	if err != nil {
		return GasReading{}, fmt.Errorf("%w: %w", ErrGasPriceUnavailable, err)
	}
	if wei == nil || wei.Sign() < 0 {
		return GasReading{}, fmt.Errorf("%w: provider returned %v", ErrGasPriceUnavailable, wei)
	}
	return GasReading{Wei: wei}, nil
}

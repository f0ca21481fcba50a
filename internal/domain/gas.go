package domain

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"
)

const gweiExponent = 9

var weiPerGwei = big.NewInt(1_000_000_000)

type GasPriceProvider interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

func GweiToWei(gwei uint64) *big.Int {
	wei := new(big.Int).SetUint64(gwei)
	return wei.Mul(wei, weiPerGwei)
}

// WeiToGwei truncates toward zero.
func WeiToGwei(wei *big.Int) *big.Int {
	return new(big.Int).Quo(wei, weiPerGwei)
}

// FormatGwei renders wei as an exact gwei decimal, e.g. 100000000 -> "0.1".
func FormatGwei(wei *big.Int) string {
	return decimal.NewFromBigInt(wei, -gweiExponent).String()
}

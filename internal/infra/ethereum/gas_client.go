package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

type rpcClient interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	Close()
}

// GasClient reads the suggested gas price from an Ethereum JSON-RPC endpoint.
type GasClient struct {
	rpc     rpcClient
	timeout time.Duration
	logger  *zap.Logger
}

func Dial(ctx context.Context, rawURL string, timeout time.Duration, logger *zap.Logger) (*GasClient, error) {
	client, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("dial ethereum rpc: %w", err)
	}
	return newGasClient(client, timeout, logger), nil
}

func newGasClient(rpc rpcClient, timeout time.Duration, logger *zap.Logger) *GasClient {
	return &GasClient{rpc: rpc, timeout: timeout, logger: logger}
}

func (c *GasClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	price, err := c.rpc.SuggestGasPrice(ctx)
	if err != nil {
		c.logger.Error("eth_gasPrice failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return nil, fmt.Errorf("eth_gasPrice: %w", err)
	}
	c.logger.Debug("eth_gasPrice complete", zap.String("wei", price.String()), zap.Duration("duration", time.Since(start)))
	return price, nil
}

func (c *GasClient) Close() {
	c.rpc.Close()
}

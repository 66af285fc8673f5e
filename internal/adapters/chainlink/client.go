package chainlink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Dial connects to the configured JSON-RPC endpoint and returns a reader
// over it with a close function for the connection
func Dial(ctx context.Context, cfg *config.RuntimeConfig, log *slog.Logger) (*AggregatorReader, func(), error) {
	if cfg.Oracle.RPCURL == "" {
		return nil, nil, fmt.Errorf("oracle.rpc_url is not configured")
	}

	client, err := ethclient.DialContext(ctx, cfg.Oracle.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	reader, err := NewAggregatorReader(client, Options{
		Timeout:   cfg.Oracle.RPCTimeout,
		RateLimit: cfg.Oracle.RPCRateLimit,
	}, log)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return reader, client.Close, nil
}

package rpc

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client wraps an Ethereum RPC client
type Client struct {
	*ethclient.Client
	URL     string
	ChainID *big.Int
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Client *Client
	Error  error
}

// Connect attempts to connect to an Ethereum RPC endpoint
func Connect(url string) ConnectResult {
	return ConnectWithTimeout(url, 8*time.Second)
}

// ConnectWithTimeout attempts to connect with a custom timeout. The chain ID
// is fetched eagerly so signers and the chain watcher share one value.
func ConnectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return ConnectResult{Client: nil, Error: err}
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return ConnectResult{Client: nil, Error: fmt.Errorf("fetching chain id: %w", err)}
	}

	return ConnectResult{
		Client: &Client{
			Client:  client,
			URL:     url,
			ChainID: chainID,
		},
		Error: nil,
	}
}

// Balance fetches the latest balance of addr in wei
func (c *Client) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	if c == nil || c.Client == nil {
		return nil, fmt.Errorf("no RPC client (set ETH_RPC_URL)")
	}
	return c.BalanceAt(ctx, addr, nil)
}

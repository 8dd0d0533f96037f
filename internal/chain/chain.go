package chain

import "context"

// BalanceSource resolves a wallet address to its on-chain balance, expressed
// in whole coins (ether for the Ethereum implementation). Implementations
// wrap lookup failures in domain.ErrUpstreamUnavailable so callers can tell a
// missing wallet from a broken upstream.
type BalanceSource interface {
	Balance(ctx context.Context, address string) (float64, error)
}

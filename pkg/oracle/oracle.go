// Package oracle implements the price-oracle adapter: a narrow, read-only
// dependency mapping an asset to a strictly-positive USD price in WAD
// fixed point, with an at-most-one-hop fallback chain. Sourcing truth from
// many weighted providers is left to an external collaborator.
package oracle

import (
	"context"
	"math/big"
	"sync"

	"github.com/palaseus/adrenolend/pkg/poolerr"
	"github.com/palaseus/adrenolend/pkg/types"
)

// PriceSource is the interface the pool controller and account aggregator
// consume. Implementations may be backed by a single feed or by a
// fallback chain, but every call must resolve to a strictly positive WAD
// price or fail.
type PriceSource interface {
	GetAssetPrice(ctx context.Context, asset types.AssetID) (*big.Int, error)
}

// StaticOracle is an admin-settable in-memory price map, the simplest
// PriceSource implementation and the one used in tests and local
// deployments.
type StaticOracle struct {
	mu     sync.RWMutex
	prices map[types.AssetID]*big.Int
}

// NewStaticOracle creates an oracle with no prices configured.
func NewStaticOracle() *StaticOracle {
	return &StaticOracle{prices: make(map[types.AssetID]*big.Int)}
}

// SetPrice sets (or updates) the WAD price for an asset. A non-positive
// price is rejected — every returned price must be strictly positive.
func (o *StaticOracle) SetPrice(asset types.AssetID, priceWad *big.Int) error {
	if priceWad == nil || priceWad.Sign() <= 0 {
		return poolerr.ErrPriceUnavailable
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prices[asset] = new(big.Int).Set(priceWad)
	return nil
}

// GetAssetPrice implements PriceSource.
func (o *StaticOracle) GetAssetPrice(_ context.Context, asset types.AssetID) (*big.Int, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.prices[asset]
	if !ok {
		return nil, poolerr.ErrPriceUnavailable
	}
	return new(big.Int).Set(p), nil
}

// AggregatingOracle consults a primary source and, if it fails, exactly
// one fallback source, keeping the fallback chain one hop deep to avoid
// recursion loops. It does not retry, weight, or combine prices; it is a
// thin failover, not a consensus mechanism.
type AggregatingOracle struct {
	primary  PriceSource
	fallback PriceSource
}

// NewAggregatingOracle builds a two-tier oracle. fallback may be nil, in
// which case a primary failure is simply propagated.
func NewAggregatingOracle(primary, fallback PriceSource) *AggregatingOracle {
	return &AggregatingOracle{primary: primary, fallback: fallback}
}

// GetAssetPrice implements PriceSource.
func (a *AggregatingOracle) GetAssetPrice(ctx context.Context, asset types.AssetID) (*big.Int, error) {
	price, err := a.primary.GetAssetPrice(ctx, asset)
	if err == nil {
		return price, nil
	}
	if a.fallback == nil {
		return nil, err
	}
	return a.fallback.GetAssetPrice(ctx, asset)
}

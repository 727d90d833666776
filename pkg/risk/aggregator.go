// Package risk implements the account aggregator: given a user identifier,
// it walks the bounded global reserve list, values collateral (weighted by
// each reserve's liquidation threshold) and debt in USD, and produces the
// health factor.
package risk

import (
	"context"
	"math/big"

	"github.com/palaseus/adrenolend/pkg/fixedpoint"
	"github.com/palaseus/adrenolend/pkg/oracle"
	"github.com/palaseus/adrenolend/pkg/poolerr"
	"github.com/palaseus/adrenolend/pkg/reserve"
	"github.com/palaseus/adrenolend/pkg/types"
)

// ReserveSource supplies the bounded, ordered reserve list the aggregator
// walks. The Pool Controller owns this list; the aggregator only reads it.
type ReserveSource interface {
	Reserves() []*reserve.Reserve
}

// Aggregator computes per-user collateral/debt USD values and health
// factor.
type Aggregator struct {
	Reserves ReserveSource
	Oracle   oracle.PriceSource
}

// New constructs an Aggregator over the given reserve source and oracle.
func New(reserves ReserveSource, priceSource oracle.PriceSource) *Aggregator {
	return &Aggregator{Reserves: reserves, Oracle: priceSource}
}

// UserAccountData computes (collateralUSD, debtUSD) for user. Reserves
// where the user holds zero supply-claim and zero debt-claim balance are
// skipped before consulting the oracle, so a stale or missing price on an
// asset the user holds no position in never blocks the call; a reserve the
// user actually has a position in must have a price, or the whole call
// fails.
func (a *Aggregator) UserAccountData(ctx context.Context, user types.AccountID) (collateralUSD, debtUSD *big.Int, err error) {
	collateralUSD = big.NewInt(0)
	debtUSD = big.NewInt(0)

	for _, r := range a.Reserves.Reserves() {
		if !r.IsActive {
			continue
		}
		supplyScaled := r.SupplyClaim.BalanceOf(user)
		debtScaled := r.DebtClaim.BalanceOf(user)
		if supplyScaled.Sign() == 0 && debtScaled.Sign() == 0 {
			continue
		}

		price, perr := a.Oracle.GetAssetPrice(ctx, r.Asset)
		if perr != nil {
			return nil, nil, perr
		}

		if supplyScaled.Sign() > 0 {
			supplyUnderlying, cerr := r.UnderlyingSupplyBalance(user)
			if cerr != nil {
				return nil, nil, cerr
			}
			valueUSD, cerr := fixedpoint.MulDiv(supplyUnderlying, price, fixedpoint.WAD)
			if cerr != nil {
				return nil, nil, cerr
			}
			weighted, cerr := fixedpoint.MulDiv(valueUSD, r.Risk.LiquidationThreshold, fixedpoint.BPS)
			if cerr != nil {
				return nil, nil, cerr
			}
			collateralUSD, cerr = fixedpoint.Add(collateralUSD, weighted)
			if cerr != nil {
				return nil, nil, cerr
			}
		}

		if debtScaled.Sign() > 0 {
			debtUnderlying, cerr := r.UnderlyingDebtBalance(user)
			if cerr != nil {
				return nil, nil, cerr
			}
			valueUSD, cerr := fixedpoint.MulDiv(debtUnderlying, price, fixedpoint.WAD)
			if cerr != nil {
				return nil, nil, cerr
			}
			debtUSD, cerr = fixedpoint.Add(debtUSD, valueUSD)
			if cerr != nil {
				return nil, nil, cerr
			}
		}
	}
	return collateralUSD, debtUSD, nil
}

// HealthFactor returns +infinity (saturated to the largest representable
// value) when the user carries no debt, else collateralUSD*WAD/debtUSD.
func (a *Aggregator) HealthFactor(ctx context.Context, user types.AccountID) (*big.Int, error) {
	collateralUSD, debtUSD, err := a.UserAccountData(ctx, user)
	if err != nil {
		return nil, err
	}
	if debtUSD.Sign() == 0 {
		return fixedpoint.MaxUint256(), nil
	}
	return fixedpoint.MulDiv(collateralUSD, fixedpoint.WAD, debtUSD)
}

// HealthFactorThreshold is 1*WAD — a health factor below this value makes
// a position liquidatable.
func HealthFactorThreshold() *big.Int {
	return new(big.Int).Set(fixedpoint.WAD)
}

// RequireHealthy returns poolerr.ErrHealthFactorTooLow if the given health
// factor is below the threshold.
func RequireHealthy(hf *big.Int) error {
	if hf.Cmp(HealthFactorThreshold()) < 0 {
		return poolerr.ErrHealthFactorTooLow
	}
	return nil
}

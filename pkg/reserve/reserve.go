// Package reserve implements the per-asset Reserve record and its index
// accrual: indices and rates are advanced in a compound-then-refresh
// order, so each accrual compounds over the rate that was actually in
// effect during the elapsed interval before a new rate is computed and
// stored for the next one.
package reserve

import (
	"context"
	"math/big"

	"github.com/palaseus/adrenolend/pkg/claimledger"
	"github.com/palaseus/adrenolend/pkg/fixedpoint"
	"github.com/palaseus/adrenolend/pkg/poolerr"
	"github.com/palaseus/adrenolend/pkg/ratemodel"
	"github.com/palaseus/adrenolend/pkg/types"
)

// RiskParams holds the per-reserve risk configuration, in basis points.
// Invariants: LTV <= LiquidationThreshold <= BPS, LiquidationBonus < BPS.
type RiskParams struct {
	LTV                  *big.Int
	LiquidationThreshold *big.Int
	LiquidationBonus     *big.Int
}

// Validate checks the RiskParams invariants.
func (p RiskParams) Validate() error {
	if p.LTV == nil || p.LiquidationThreshold == nil || p.LiquidationBonus == nil {
		return poolerr.ErrInvalidRiskParams
	}
	if p.LTV.Sign() < 0 || p.LiquidationThreshold.Sign() < 0 || p.LiquidationBonus.Sign() < 0 {
		return poolerr.ErrInvalidRiskParams
	}
	if p.LTV.Cmp(p.LiquidationThreshold) > 0 {
		return poolerr.ErrInvalidRiskParams
	}
	if p.LiquidationThreshold.Cmp(fixedpoint.BPS) > 0 {
		return poolerr.ErrInvalidRiskParams
	}
	if p.LiquidationBonus.Cmp(fixedpoint.BPS) >= 0 {
		return poolerr.ErrInvalidRiskParams
	}
	return nil
}

// PoolBalanceFunc reports the pool's on-hand custody balance of the
// underlying asset. Injected rather than owned by Reserve, since the
// underlying asset's custody is an external collaborator.
type PoolBalanceFunc func(asset types.AssetID) (*big.Int, error)

// Reserve is the per-asset ledger record: risk parameters, accrual
// indices and rates, and the claim ledgers backing it.
type Reserve struct {
	Asset types.AssetID

	LiquidityIndex     *big.Int // ray, monotonically non-decreasing
	VariableBorrowIndex *big.Int // ray, monotonically non-decreasing

	CurrentLiquidityRate     *big.Int // ray, per second
	CurrentVariableBorrowRate *big.Int // ray, per second

	LastUpdateTimestamp int64 // seconds since epoch

	Risk RiskParams

	SupplyClaim *claimledger.SupplyLedger
	DebtClaim   *claimledger.DebtLedger
	RateModel   ratemodel.Model

	IsActive bool
	IsFrozen bool

	// FlashLoanPremiumBps records the declared-but-unimplemented
	// flash-loan premium; no operation consumes it.
	FlashLoanPremiumBps *big.Int
}

// New constructs a freshly initialized reserve: indices at 1*RAY, rates at
// zero, active and unfrozen.
func New(asset types.AssetID, risk RiskParams, model ratemodel.Model, now int64) (*Reserve, error) {
	if err := risk.Validate(); err != nil {
		return nil, err
	}
	return &Reserve{
		Asset:                     asset,
		LiquidityIndex:            new(big.Int).Set(fixedpoint.RAY),
		VariableBorrowIndex:       new(big.Int).Set(fixedpoint.RAY),
		CurrentLiquidityRate:      big.NewInt(0),
		CurrentVariableBorrowRate: big.NewInt(0),
		LastUpdateTimestamp:       now,
		Risk:                      risk,
		SupplyClaim:               claimledger.NewSupplyLedger(),
		DebtClaim:                 claimledger.NewDebtLedger(),
		RateModel:                 model,
		IsActive:                  true,
		IsFrozen:                  false,
		FlashLoanPremiumBps:       big.NewInt(9),
	}, nil
}

// Accrue compounds both indices using the rates that were valid over the
// elapsed interval (the rates set by the *previous* call), then asks the
// rate model for new rates given the post-compounding state and stores
// those for next time. Linear compounding is used uniformly for both
// indices: index*(RAY + rate*Δt)/RAY rather than a Taylor expansion.
func (r *Reserve) Accrue(_ context.Context, poolBalance PoolBalanceFunc, now int64) error {
	if now < r.LastUpdateTimestamp {
		return nil
	}
	dt := now - r.LastUpdateTimestamp
	if dt == 0 {
		return nil
	}

	if err := r.compoundIndex(&r.LiquidityIndex, r.CurrentLiquidityRate, dt); err != nil {
		return err
	}
	if err := r.compoundIndex(&r.VariableBorrowIndex, r.CurrentVariableBorrowRate, dt); err != nil {
		return err
	}

	totalDebt := r.DebtClaim.TotalSupply()
	scaledDebtUnderlying, err := fixedpoint.MulDiv(totalDebt, r.VariableBorrowIndex, fixedpoint.RAY)
	if err != nil {
		return err
	}
	cash, err := poolBalance(r.Asset)
	if err != nil {
		return err
	}
	totalLiquidity, err := fixedpoint.Add(cash, scaledDebtUnderlying)
	if err != nil {
		return err
	}

	liquidityRate, borrowRate, err := r.RateModel.CalculateInterestRates(totalLiquidity, scaledDebtUnderlying)
	if err != nil {
		return err
	}
	r.CurrentLiquidityRate = liquidityRate
	r.CurrentVariableBorrowRate = borrowRate
	r.LastUpdateTimestamp = now
	return nil
}

// compoundIndex advances *index by index*(RAY + rate*dt)/RAY in place.
func (r *Reserve) compoundIndex(index **big.Int, ratePerSecond *big.Int, dt int64) error {
	if ratePerSecond.Sign() == 0 {
		return nil
	}
	elapsed, err := fixedpoint.Mul(ratePerSecond, big.NewInt(dt))
	if err != nil {
		return err
	}
	factor, err := fixedpoint.Add(fixedpoint.RAY, elapsed)
	if err != nil {
		return err
	}
	newIndex, err := fixedpoint.MulDiv(*index, factor, fixedpoint.RAY)
	if err != nil {
		return err
	}
	*index = newIndex
	return nil
}

// UnderlyingSupplyBalance converts a scaled supply-claim balance to
// underlying units via the current liquidity index.
func (r *Reserve) UnderlyingSupplyBalance(account types.AccountID) (*big.Int, error) {
	scaled := r.SupplyClaim.BalanceOf(account)
	return fixedpoint.MulDiv(scaled, r.LiquidityIndex, fixedpoint.RAY)
}

// UnderlyingDebtBalance converts a scaled debt-claim balance to underlying
// units via the current variable borrow index, rounding up (the protocol
// never rounds debt owed in the borrower's favor).
func (r *Reserve) UnderlyingDebtBalance(account types.AccountID) (*big.Int, error) {
	scaled := r.DebtClaim.BalanceOf(account)
	if scaled.Sign() == 0 {
		return big.NewInt(0), nil
	}
	return fixedpoint.MulDivCeil(scaled, r.VariableBorrowIndex, fixedpoint.RAY)
}

// ScaledFromUnderlyingSupply converts an underlying amount to a scaled
// supply-claim amount via the current liquidity index, truncating.
func (r *Reserve) ScaledFromUnderlyingSupply(underlying *big.Int) (*big.Int, error) {
	return fixedpoint.MulDiv(underlying, fixedpoint.RAY, r.LiquidityIndex)
}

// ScaledFromUnderlyingDebt converts an underlying amount to a scaled
// debt-claim amount via the current variable borrow index, truncating.
func (r *Reserve) ScaledFromUnderlyingDebt(underlying *big.Int) (*big.Int, error) {
	return fixedpoint.MulDiv(underlying, fixedpoint.RAY, r.VariableBorrowIndex)
}

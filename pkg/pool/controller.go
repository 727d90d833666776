// Package pool implements the pool controller: the single entry point for
// Deposit, Withdraw, Borrow, Repay, Liquidate, and the admin operations,
// composing the reserve, claim-ledger, risk, oracle, and access packages
// into one transactionally-atomic surface.
package pool

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/palaseus/adrenolend/pkg/access"
	"github.com/palaseus/adrenolend/pkg/eventlog"
	"github.com/palaseus/adrenolend/pkg/fixedpoint"
	"github.com/palaseus/adrenolend/pkg/logger"
	"github.com/palaseus/adrenolend/pkg/oracle"
	"github.com/palaseus/adrenolend/pkg/poolerr"
	"github.com/palaseus/adrenolend/pkg/ratemodel"
	"github.com/palaseus/adrenolend/pkg/reserve"
	"github.com/palaseus/adrenolend/pkg/risk"
	"github.com/palaseus/adrenolend/pkg/types"
)

// MaxReserves bounds the global reserve list the aggregator walks.
const MaxReserves = 128

// closeFactorBps is the fraction of a borrower's debt a single liquidation
// call may repay.
var closeFactorBps = big.NewInt(5000)

// MaxAmount is the sentinel a caller passes to Withdraw or Repay to mean
// "the account's entire balance".
func MaxAmount() *big.Int {
	return fixedpoint.MaxUint256()
}

type delegationKey struct {
	delegator types.AccountID
	delegate  types.AccountID
	asset     types.AssetID
}

// Controller is the single entry point for every pool operation. All state
// mutation happens under mu, which also serves as the controller's
// reentrancy guard: Go's sync.Mutex deadlocks rather than silently
// re-entering on a same-goroutine double Lock, so no separate "active"
// latch is needed to enforce non-reentrancy.
type Controller struct {
	mu sync.Mutex

	reservesOrder []types.AssetID
	reserves      map[types.AssetID]*reserve.Reserve
	cash          map[types.AssetID]*big.Int

	roles      *access.Registry
	oracle     oracle.PriceSource
	aggregator *risk.Aggregator

	paused      bool
	delegations map[delegationKey]*big.Int

	logger *logger.Logger
	events eventLog
	sink   *eventlog.Sink

	// Clock returns the current Unix timestamp. Injectable so tests can
	// drive accrual deterministically instead of depending on wall time.
	Clock func() int64
}

// WithEventSink attaches a durable event sink; every subsequent operation
// additionally appends its event to the sink, keyed by the asset it
// concerns. Calling this is optional — the in-process eventLog always
// records every event regardless of whether a sink is attached.
func (c *Controller) WithEventSink(sink *eventlog.Sink) *Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink = sink
	return c
}

func (c *Controller) appendSink(asset types.AssetID, kind string, payload interface{}) {
	if c.sink == nil {
		return
	}
	if err := c.sink.Append(asset, kind, payload, c.now()); err != nil {
		c.logger.Error("eventlog append failed: kind=%s asset=%s err=%v", kind, asset.String(), err)
	}
}

// NewController constructs a Controller with a single bootstrapped admin,
// the given price source, and a structured logger.
func NewController(admin types.AccountID, priceSource oracle.PriceSource, log *logger.Logger, clock func() int64) *Controller {
	if log == nil {
		log = logger.NewLogger(logger.DefaultConfig())
	}
	c := &Controller{
		reserves:    make(map[types.AssetID]*reserve.Reserve),
		cash:        make(map[types.AssetID]*big.Int),
		roles:       access.NewRegistry(admin),
		oracle:      priceSource,
		delegations: make(map[delegationKey]*big.Int),
		logger:      log,
		Clock:       clock,
	}
	c.aggregator = risk.New((*lockFreeReserveView)(c), priceSource)
	return c
}

// lockFreeReserveView adapts *Controller to risk.ReserveSource without
// taking c.mu: the internal aggregator is only ever invoked from within a
// Controller method that already holds the lock, and Go's sync.Mutex is
// not reentrant, so a second Lock() on the same goroutine would deadlock
// rather than observe the held state.
type lockFreeReserveView Controller

func (v *lockFreeReserveView) Reserves() []*reserve.Reserve {
	return (*Controller)(v).reservesLocked()
}

// Reserves implements risk.ReserveSource for external callers (e.g. a
// separately-constructed risk.Aggregator wired to this pool from outside),
// taking the lock since such a caller cannot already hold it.
func (c *Controller) Reserves() []*reserve.Reserve {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reservesLocked()
}

func (c *Controller) reservesLocked() []*reserve.Reserve {
	out := make([]*reserve.Reserve, 0, len(c.reservesOrder))
	for _, a := range c.reservesOrder {
		out = append(out, c.reserves[a])
	}
	return out
}

func (c *Controller) poolBalance(asset types.AssetID) (*big.Int, error) {
	if v, ok := c.cash[asset]; ok {
		return new(big.Int).Set(v), nil
	}
	return big.NewInt(0), nil
}

// InitializeReserve creates a new reserve for asset. Admin-gated.
func (c *Controller) InitializeReserve(caller types.AccountID, asset types.AssetID, riskParams reserve.RiskParams, model ratemodel.Model) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.roles.RequireAdmin(caller); err != nil {
		return err
	}
	if _, exists := c.reserves[asset]; exists {
		return poolerr.ErrReserveAlreadyExists
	}
	if len(c.reservesOrder) >= MaxReserves {
		return poolerr.ErrTooManyReserves
	}

	r, err := reserve.New(asset, riskParams, model, c.now())
	if err != nil {
		return err
	}
	c.reserves[asset] = r
	c.reservesOrder = append(c.reservesOrder, asset)
	c.cash[asset] = big.NewInt(0)
	event := ReserveInitializedEvent{Asset: asset, SupplyClaim: r.SupplyClaim, DebtClaim: r.DebtClaim}
	c.events.Reserves = append(c.events.Reserves, event)
	c.appendSink(asset, "reserve_initialized", event)
	c.logger.Info("reserve initialized: asset=%s", asset.String())
	return nil
}

// FreezeReserve blocks new deposits and borrows against asset, admin-gated.
// Withdraw and repay remain available so existing positions can unwind.
func (c *Controller) FreezeReserve(caller types.AccountID, asset types.AssetID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.roles.RequireAdmin(caller); err != nil {
		return err
	}
	r, ok := c.reserves[asset]
	if !ok {
		return poolerr.ErrReserveNotFound
	}
	r.IsFrozen = true
	c.logger.Info("reserve frozen: asset=%s", asset.String())
	return nil
}

// UnfreezeReserve reverses FreezeReserve.
func (c *Controller) UnfreezeReserve(caller types.AccountID, asset types.AssetID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.roles.RequireAdmin(caller); err != nil {
		return err
	}
	r, ok := c.reserves[asset]
	if !ok {
		return poolerr.ErrReserveNotFound
	}
	r.IsFrozen = false
	c.logger.Info("reserve unfrozen: asset=%s", asset.String())
	return nil
}

// Pause halts Deposit, Borrow, and Liquidate pool-wide; Withdraw and Repay
// remain available. Admin-gated.
func (c *Controller) Pause(caller types.AccountID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.roles.RequireAdmin(caller); err != nil {
		return err
	}
	c.paused = true
	c.logger.Warn("pool paused by %s", caller.String())
	return nil
}

// Unpause reverses Pause.
func (c *Controller) Unpause(caller types.AccountID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.roles.RequireAdmin(caller); err != nil {
		return err
	}
	c.paused = false
	c.logger.Info("pool unpaused by %s", caller.String())
	return nil
}

// ApproveDelegation grants delegate an allowance to borrow asset on
// delegator's behalf. Any account may approve delegation for itself; no
// admin gate applies.
func (c *Controller) ApproveDelegation(delegator, delegate types.AccountID, asset types.AssetID, amount *big.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if amount == nil || amount.Sign() < 0 {
		return poolerr.ErrZeroAmount
	}
	c.delegations[delegationKey{delegator, delegate, asset}] = new(big.Int).Set(amount)
	return nil
}

func (c *Controller) delegationAllowance(delegator, delegate types.AccountID, asset types.AssetID) *big.Int {
	if v, ok := c.delegations[delegationKey{delegator, delegate, asset}]; ok {
		return v
	}
	return big.NewInt(0)
}

func (c *Controller) now() int64 {
	if c.Clock != nil {
		return c.Clock()
	}
	return 0
}

func (c *Controller) requireReserve(asset types.AssetID) (*reserve.Reserve, error) {
	r, ok := c.reserves[asset]
	if !ok {
		return nil, poolerr.ErrReserveNotFound
	}
	if !r.IsActive {
		return nil, poolerr.ErrAssetNotActive
	}
	return r, nil
}

// accrue advances a reserve's indices and rates, then records an
// InterestEvent capturing the resulting utilization.
func (c *Controller) accrue(ctx context.Context, r *reserve.Reserve) error {
	if err := r.Accrue(ctx, c.poolBalance, c.now()); err != nil {
		return err
	}
	cash, err := c.poolBalance(r.Asset)
	if err != nil {
		return err
	}
	debtUnderlying, err := fixedpoint.MulDiv(r.DebtClaim.TotalSupply(), r.VariableBorrowIndex, fixedpoint.RAY)
	if err != nil {
		return err
	}
	totalLiquidity, err := fixedpoint.Add(cash, debtUnderlying)
	if err != nil {
		return err
	}
	utilization := big.NewInt(0)
	if totalLiquidity.Sign() > 0 {
		utilization, err = fixedpoint.MulDiv(debtUnderlying, fixedpoint.RAY, totalLiquidity)
		if err != nil {
			return err
		}
	}
	event := InterestEvent{
		Asset:         r.Asset,
		LiquidityRate: new(big.Int).Set(r.CurrentLiquidityRate),
		BorrowRate:    new(big.Int).Set(r.CurrentVariableBorrowRate),
		Utilization:   utilization,
	}
	c.events.Interest = append(c.events.Interest, event)
	c.appendSink(r.Asset, "interest", event)
	return nil
}

// Deposit supplies amount of asset's underlying into the reserve, minting
// a supply-claim balance for caller.
func (c *Controller) Deposit(ctx context.Context, caller types.AccountID, asset types.AssetID, amount *big.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return poolerr.ErrPoolPaused
	}
	if amount == nil || amount.Sign() <= 0 {
		return poolerr.ErrZeroAmount
	}
	r, err := c.requireReserve(asset)
	if err != nil {
		return err
	}
	if r.IsFrozen {
		return poolerr.ErrReserveFrozen
	}
	if err := c.accrue(ctx, r); err != nil {
		return err
	}

	scaled, err := r.ScaledFromUnderlyingSupply(amount)
	if err != nil {
		return err
	}
	if err := r.SupplyClaim.Mint(caller, scaled); err != nil {
		return err
	}
	newCash, err := fixedpoint.Add(c.cash[asset], amount)
	if err != nil {
		return err
	}
	c.cash[asset] = newCash

	event := DepositEvent{
		User: caller, Asset: asset, Amount: new(big.Int).Set(amount), ClaimMinted: scaled,
	}
	c.events.Deposits = append(c.events.Deposits, event)
	c.appendSink(asset, "deposit", event)
	c.logger.Info("deposit: user=%s asset=%s amount=%s", caller.String(), asset.String(), amount.String())
	return nil
}

// Withdraw redeems the caller's supply-claim balance for asset's
// underlying. amount may be MaxAmount() to withdraw the caller's entire
// balance. Tentatively mutates state, checks the resulting health factor,
// and reverts the mutation if the withdrawal would leave the caller
// unhealthy while still carrying debt elsewhere.
func (c *Controller) Withdraw(ctx context.Context, caller types.AccountID, asset types.AssetID, amount *big.Int) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Pause blocks deposits, borrows, and liquidations but not withdrawals
	// or repayments, so callers can always reduce their risk.
	if amount == nil || amount.Sign() <= 0 {
		return nil, poolerr.ErrZeroAmount
	}
	r, err := c.requireReserve(asset)
	if err != nil {
		return nil, err
	}
	if err := c.accrue(ctx, r); err != nil {
		return nil, err
	}

	var scaledToBurn *big.Int
	var underlyingOut *big.Int
	if amount.Cmp(MaxAmount()) == 0 {
		scaledToBurn = r.SupplyClaim.BalanceOf(caller)
		underlyingOut, err = r.UnderlyingSupplyBalance(caller)
		if err != nil {
			return nil, err
		}
	} else {
		underlyingOut = new(big.Int).Set(amount)
		scaledToBurn, err = r.ScaledFromUnderlyingSupply(amount)
		if err != nil {
			return nil, err
		}
	}
	if underlyingOut.Sign() == 0 {
		return nil, poolerr.ErrZeroAmount
	}
	if c.cash[asset].Cmp(underlyingOut) < 0 {
		return nil, poolerr.ErrInsufficientBalance
	}

	if err := r.SupplyClaim.Burn(caller, scaledToBurn); err != nil {
		return nil, err
	}
	newCash, err := fixedpoint.Sub(c.cash[asset], underlyingOut)
	if err != nil {
		_ = r.SupplyClaim.Mint(caller, scaledToBurn)
		return nil, err
	}
	c.cash[asset] = newCash

	hf, err := c.aggregator.HealthFactor(ctx, caller)
	if err != nil || hf.Cmp(risk.HealthFactorThreshold()) < 0 {
		// Revert the tentative mutation.
		c.cash[asset], _ = fixedpoint.Add(c.cash[asset], underlyingOut)
		_ = r.SupplyClaim.Mint(caller, scaledToBurn)
		if err != nil {
			return nil, err
		}
		return nil, poolerr.ErrHealthFactorTooLow
	}

	event := WithdrawEvent{
		User: caller, Asset: asset, Amount: new(big.Int).Set(underlyingOut),
	}
	c.events.Withdraws = append(c.events.Withdraws, event)
	c.appendSink(asset, "withdraw", event)
	c.logger.Info("withdraw: user=%s asset=%s amount=%s", caller.String(), asset.String(), underlyingOut.String())
	return underlyingOut, nil
}

// Borrow draws amount of asset's underlying against onBehalfOf's
// collateral. If onBehalfOf differs from caller, the caller must hold a
// sufficient delegation allowance; the allowance is decremented by amount.
func (c *Controller) Borrow(ctx context.Context, caller types.AccountID, asset types.AssetID, amount *big.Int, onBehalfOf types.AccountID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return poolerr.ErrPoolPaused
	}
	if amount == nil || amount.Sign() <= 0 {
		return poolerr.ErrZeroAmount
	}
	r, err := c.requireReserve(asset)
	if err != nil {
		return err
	}
	if r.IsFrozen {
		return poolerr.ErrReserveFrozen
	}
	if onBehalfOf != caller {
		allowance := c.delegationAllowance(onBehalfOf, caller, asset)
		if allowance.Cmp(amount) < 0 {
			return poolerr.ErrDelegationRequired
		}
	}
	if c.cash[asset].Cmp(amount) < 0 {
		return poolerr.ErrInsufficientBalance
	}
	if err := c.accrue(ctx, r); err != nil {
		return err
	}

	scaled, err := r.ScaledFromUnderlyingDebt(amount)
	if err != nil {
		return err
	}
	if err := r.DebtClaim.Mint(onBehalfOf, scaled); err != nil {
		return err
	}
	newCash, err := fixedpoint.Sub(c.cash[asset], amount)
	if err != nil {
		_ = r.DebtClaim.Burn(onBehalfOf, scaled)
		return err
	}
	c.cash[asset] = newCash

	hf, err := c.aggregator.HealthFactor(ctx, onBehalfOf)
	if err != nil || hf.Cmp(risk.HealthFactorThreshold()) < 0 {
		c.cash[asset], _ = fixedpoint.Add(c.cash[asset], amount)
		_ = r.DebtClaim.Burn(onBehalfOf, scaled)
		if err != nil {
			return err
		}
		return poolerr.ErrHealthFactorTooLow
	}

	// Decrement the delegation allowance only after every failure path has
	// passed, so a borrow that fails the solvency check leaves the
	// delegator's allowance untouched.
	if onBehalfOf != caller {
		allowance := c.delegationAllowance(onBehalfOf, caller, asset)
		c.delegations[delegationKey{onBehalfOf, caller, asset}] = new(big.Int).Sub(allowance, amount)
	}

	event := BorrowEvent{
		User: onBehalfOf, Asset: asset, Amount: new(big.Int).Set(amount),
	}
	c.events.Borrows = append(c.events.Borrows, event)
	c.appendSink(asset, "borrow", event)
	c.logger.Info("borrow: user=%s asset=%s amount=%s", onBehalfOf.String(), asset.String(), amount.String())
	return nil
}

// Repay reduces onBehalfOf's debt-claim balance for asset by amount.
// amount may be MaxAmount() to repay the account's entire debt.
func (c *Controller) Repay(ctx context.Context, caller types.AccountID, asset types.AssetID, amount *big.Int, onBehalfOf types.AccountID) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if amount == nil || amount.Sign() <= 0 {
		return nil, poolerr.ErrZeroAmount
	}
	r, err := c.requireReserve(asset)
	if err != nil {
		return nil, err
	}
	if err := c.accrue(ctx, r); err != nil {
		return nil, err
	}

	currentDebt, err := r.UnderlyingDebtBalance(onBehalfOf)
	if err != nil {
		return nil, err
	}
	repayAmount := fixedpoint.Min(amount, currentDebt)
	if repayAmount.Sign() == 0 {
		return nil, poolerr.ErrZeroAmount
	}

	var scaledToBurn *big.Int
	if repayAmount.Cmp(currentDebt) == 0 {
		scaledToBurn = r.DebtClaim.BalanceOf(onBehalfOf)
	} else {
		scaledToBurn, err = r.ScaledFromUnderlyingDebt(repayAmount)
		if err != nil {
			return nil, err
		}
	}
	if err := r.DebtClaim.Burn(onBehalfOf, scaledToBurn); err != nil {
		return nil, err
	}
	newCash, err := fixedpoint.Add(c.cash[asset], repayAmount)
	if err != nil {
		return nil, err
	}
	c.cash[asset] = newCash

	event := RepayEvent{
		User: onBehalfOf, Asset: asset, Amount: new(big.Int).Set(repayAmount),
	}
	c.events.Repays = append(c.events.Repays, event)
	c.appendSink(asset, "repay", event)
	c.logger.Info("repay: user=%s asset=%s amount=%s", onBehalfOf.String(), asset.String(), repayAmount.String())
	return repayAmount, nil
}

// Liquidate repays up to the close-factor fraction of borrower's debt in
// debtAsset and seizes the equivalent (plus bonus) value of borrower's
// collateralAsset supply-claim balance. Liquidation is open to every
// caller; RoleLiquidator is declared but not enforced. The two touched
// reserves are accrued in ascending asset-ID order — a no-op under the
// controller's single mutex, but documented so the ordering survives a
// future move to per-reserve locks.
func (c *Controller) Liquidate(ctx context.Context, caller, borrower types.AccountID, collateralAsset, debtAsset types.AssetID, debtToCover *big.Int) (coveredDebt, seizedCollateral *big.Int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return nil, nil, poolerr.ErrPoolPaused
	}
	if collateralAsset == debtAsset {
		return nil, nil, poolerr.ErrSameAsset
	}
	if debtToCover == nil || debtToCover.Sign() <= 0 {
		return nil, nil, poolerr.ErrZeroAmount
	}

	collateralReserve, err := c.requireReserve(collateralAsset)
	if err != nil {
		return nil, nil, err
	}
	debtReserve, err := c.requireReserve(debtAsset)
	if err != nil {
		return nil, nil, err
	}

	first, second := collateralReserve, debtReserve
	if debtAsset < collateralAsset {
		first, second = debtReserve, collateralReserve
	}
	if err := c.accrue(ctx, first); err != nil {
		return nil, nil, err
	}
	if err := c.accrue(ctx, second); err != nil {
		return nil, nil, err
	}

	hf, err := c.aggregator.HealthFactor(ctx, borrower)
	if err != nil {
		return nil, nil, err
	}
	if hf.Cmp(risk.HealthFactorThreshold()) >= 0 {
		return nil, nil, poolerr.ErrPositionHealthy
	}

	borrowerDebt, err := debtReserve.UnderlyingDebtBalance(borrower)
	if err != nil {
		return nil, nil, err
	}
	maxCoverable, err := fixedpoint.MulDiv(borrowerDebt, closeFactorBps, fixedpoint.BPS)
	if err != nil {
		return nil, nil, err
	}
	actualCover := fixedpoint.Min(debtToCover, maxCoverable)
	if actualCover.Sign() == 0 {
		return nil, nil, poolerr.ErrZeroAmount
	}

	debtPrice, err := c.oracle.GetAssetPrice(ctx, debtAsset)
	if err != nil {
		return nil, nil, err
	}
	collateralPrice, err := c.oracle.GetAssetPrice(ctx, collateralAsset)
	if err != nil {
		return nil, nil, err
	}

	baseCollateral, err := fixedpoint.MulDiv(actualCover, debtPrice, collateralPrice)
	if err != nil {
		return nil, nil, err
	}
	bonusFactor, err := fixedpoint.Add(fixedpoint.BPS, collateralReserve.Risk.LiquidationBonus)
	if err != nil {
		return nil, nil, err
	}
	wantCollateral, err := fixedpoint.MulDiv(baseCollateral, bonusFactor, fixedpoint.BPS)
	if err != nil {
		return nil, nil, err
	}

	borrowerCollateral, err := collateralReserve.UnderlyingSupplyBalance(borrower)
	if err != nil {
		return nil, nil, err
	}

	// Clamp the seized amount to the borrower's actual collateral balance
	// and proportionally reduce the debt covered, rather than seizing more
	// than the borrower holds.
	collateralToSeize := wantCollateral
	if wantCollateral.Cmp(borrowerCollateral) > 0 {
		collateralToSeize = borrowerCollateral
		actualCover, err = fixedpoint.MulDiv(collateralToSeize, collateralPrice, func() *big.Int {
			p, _ := fixedpoint.MulDiv(debtPrice, bonusFactor, fixedpoint.BPS)
			return p
		}())
		if err != nil {
			return nil, nil, err
		}
	}
	if collateralToSeize.Sign() == 0 || actualCover.Sign() == 0 {
		return nil, nil, poolerr.ErrInsufficientCollateral
	}

	debtScaledBurn, err := debtReserve.ScaledFromUnderlyingDebt(actualCover)
	if err != nil {
		return nil, nil, err
	}
	if err := debtReserve.DebtClaim.Burn(borrower, debtScaledBurn); err != nil {
		return nil, nil, err
	}
	collateralScaledTransfer, err := collateralReserve.ScaledFromUnderlyingSupply(collateralToSeize)
	if err != nil {
		return nil, nil, err
	}
	if err := collateralReserve.SupplyClaim.TransferOnLiquidation(borrower, caller, collateralScaledTransfer); err != nil {
		return nil, nil, err
	}

	newDebtCash, err := fixedpoint.Add(c.cash[debtAsset], actualCover)
	if err != nil {
		return nil, nil, err
	}
	c.cash[debtAsset] = newDebtCash

	event := LiquidationEvent{
		Liquidator: caller, Borrower: borrower,
		CollateralAsset: collateralAsset, DebtAsset: debtAsset,
		DebtCovered: new(big.Int).Set(actualCover), CollateralSeized: new(big.Int).Set(collateralToSeize),
	}
	c.events.Liquidations = append(c.events.Liquidations, event)
	c.appendSink(debtAsset, "liquidation", event)
	c.logger.Info("liquidation: liquidator=%s borrower=%s debtAsset=%s collateralAsset=%s covered=%s seized=%s",
		caller.String(), borrower.String(), debtAsset.String(), collateralAsset.String(), actualCover.String(), collateralToSeize.String())
	return actualCover, collateralToSeize, nil
}

// HealthFactor exposes the controller's risk aggregator for read-only
// queries.
func (c *Controller) HealthFactor(ctx context.Context, user types.AccountID) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aggregator.HealthFactor(ctx, user)
}

// UserAccountData exposes userAccountData for read-only queries.
func (c *Controller) UserAccountData(ctx context.Context, user types.AccountID) (collateralUSD, debtUSD *big.Int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aggregator.UserAccountData(ctx, user)
}

// ReserveInfo returns a snapshot of a reserve's public fields, or
// poolerr.ErrReserveNotFound.
func (c *Controller) ReserveInfo(asset types.AssetID) (*reserve.Reserve, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.reserves[asset]
	if !ok {
		return nil, poolerr.ErrReserveNotFound
	}
	return r, nil
}

// Errorf wraps a controller error with operation context without losing
// sentinel comparability.
func Errorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

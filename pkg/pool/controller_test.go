package pool

import (
	"context"
	"math/big"
	"testing"

	"github.com/palaseus/adrenolend/pkg/fixedpoint"
	"github.com/palaseus/adrenolend/pkg/oracle"
	"github.com/palaseus/adrenolend/pkg/poolerr"
	"github.com/palaseus/adrenolend/pkg/ratemodel"
	"github.com/palaseus/adrenolend/pkg/reserve"
	"github.com/palaseus/adrenolend/pkg/types"
)

const admin = types.AccountID("admin")

func rayFrac(n, d int64) *big.Int {
	v, err := fixedpoint.MulDiv(big.NewInt(n), fixedpoint.RAY, big.NewInt(d))
	if err != nil {
		panic(err)
	}
	return v
}

func wadFrac(n, d int64) *big.Int {
	v, err := fixedpoint.MulDiv(fixedpoint.WAD, big.NewInt(n), big.NewInt(d))
	if err != nil {
		panic(err)
	}
	return v
}

func testModel() *ratemodel.TwoSlopeModel {
	return ratemodel.NewTwoSlopeModel(rayFrac(2, 100), rayFrac(4, 100), rayFrac(75, 100), rayFrac(80, 100))
}

func testRisk(ltv, threshold, bonus int64) reserve.RiskParams {
	return reserve.RiskParams{
		LTV:                  big.NewInt(ltv),
		LiquidationThreshold: big.NewInt(threshold),
		LiquidationBonus:     big.NewInt(bonus),
	}
}

// newTestController builds a controller with a static oracle and a frozen
// clock (no interest accrual across calls unless the test advances it).
func newTestController(t *testing.T) (*Controller, *oracle.StaticOracle, *int64) {
	t.Helper()
	o := oracle.NewStaticOracle()
	now := int64(1000)
	clock := func() int64 { return now }
	c := NewController(admin, o, nil, clock)
	return c, o, &now
}

func mustInitReserve(t *testing.T, c *Controller, asset types.AssetID, ltv, threshold, bonus int64) {
	t.Helper()
	if err := c.InitializeReserve(admin, asset, testRisk(ltv, threshold, bonus), testModel()); err != nil {
		t.Fatalf("InitializeReserve(%s): %v", asset, err)
	}
}

// Deposit then borrow within LTV succeeds
// and produces the expected health factor.
func TestDepositThenBorrowWithinLTV(t *testing.T) {
	c, o, _ := newTestController(t)
	mustInitReserve(t, c, "D", 7500, 8000, 500)
	if err := o.SetPrice("D", fixedpoint.WAD); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	user := types.AccountID("user1")

	if err := c.Deposit(ctx, user, "D", big.NewInt(1000)); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := c.Borrow(ctx, user, "D", big.NewInt(700), user); err != nil {
		t.Fatalf("Borrow: %v", err)
	}

	hf, err := c.HealthFactor(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := fixedpoint.MulDiv(big.NewInt(800), fixedpoint.WAD, big.NewInt(700))
	if hf.Cmp(want) != 0 {
		t.Errorf("healthFactor = %v, want %v", hf, want)
	}
}

// A borrow that would push health factor below
// 1*WAD is rejected, and state is left unchanged.
func TestBorrowRejectedWhenUnhealthy(t *testing.T) {
	c, o, _ := newTestController(t)
	mustInitReserve(t, c, "D", 7500, 8000, 500)
	if err := o.SetPrice("D", fixedpoint.WAD); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	user := types.AccountID("user1")

	if err := c.Deposit(ctx, user, "D", big.NewInt(1000)); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	// threshold-weighted collateral is 800; borrowing 900 must fail.
	err := c.Borrow(ctx, user, "D", big.NewInt(900), user)
	if err != poolerr.ErrHealthFactorTooLow {
		t.Fatalf("Borrow error = %v, want ErrHealthFactorTooLow", err)
	}

	r, rerr := c.ReserveInfo("D")
	if rerr != nil {
		t.Fatal(rerr)
	}
	if r.DebtClaim.BalanceOf(user).Sign() != 0 {
		t.Error("expected no debt minted after rejected borrow")
	}
	cash, _ := c.poolBalance("D")
	if cash.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("cash = %v, want unchanged 1000", cash)
	}
}

// An unhealthy borrower can be partially
// liquidated up to the 50% close factor, with a liquidation bonus applied
// to the collateral seized.
func TestLiquidateUnhealthyBorrower(t *testing.T) {
	c, o, _ := newTestController(t)
	mustInitReserve(t, c, "C", 7500, 8000, 500) // 5% bonus
	mustInitReserve(t, c, "D", 7500, 8000, 500)
	if err := o.SetPrice("C", fixedpoint.WAD); err != nil {
		t.Fatal(err)
	}
	if err := o.SetPrice("D", fixedpoint.WAD); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	borrower := types.AccountID("borrower")
	liquidator := types.AccountID("liquidator")

	if err := c.Deposit(ctx, borrower, "C", big.NewInt(1000)); err != nil {
		t.Fatalf("Deposit C: %v", err)
	}
	if err := c.Deposit(ctx, liquidator, "D", big.NewInt(1000)); err != nil {
		t.Fatalf("Deposit D (liquidity): %v", err)
	}
	if err := c.Borrow(ctx, borrower, "D", big.NewInt(750), borrower); err != nil {
		t.Fatalf("Borrow: %v", err)
	}

	// Collateral price collapses, leaving the borrower unhealthy:
	// collateralUSD = 1000*0.5*0.8 = 400 < debtUSD = 750.
	if err := o.SetPrice("C", wadFrac(1, 2)); err != nil {
		t.Fatal(err)
	}

	hf, err := c.HealthFactor(ctx, borrower)
	if err != nil {
		t.Fatal(err)
	}
	if hf.Cmp(fixedpoint.WAD) >= 0 {
		t.Fatalf("expected unhealthy position, got hf=%v", hf)
	}

	covered, seized, err := c.Liquidate(ctx, liquidator, borrower, "C", "D", big.NewInt(400))
	if err != nil {
		t.Fatalf("Liquidate: %v", err)
	}
	// close factor caps coverage at 50% of 750 = 375.
	if covered.Cmp(big.NewInt(375)) != 0 {
		t.Errorf("covered = %v, want 375", covered)
	}
	if seized.Sign() <= 0 {
		t.Error("expected positive collateral seized")
	}

	r, rerr := c.ReserveInfo("C")
	if rerr != nil {
		t.Fatal(rerr)
	}
	if r.SupplyClaim.BalanceOf(liquidator).Sign() == 0 {
		t.Error("expected liquidator to receive seized collateral claim")
	}
}

// Liquidating a healthy position must fail.
func TestLiquidateHealthyPositionRejected(t *testing.T) {
	c, o, _ := newTestController(t)
	mustInitReserve(t, c, "C", 7500, 8000, 500)
	mustInitReserve(t, c, "D", 7500, 8000, 500)
	if err := o.SetPrice("C", fixedpoint.WAD); err != nil {
		t.Fatal(err)
	}
	if err := o.SetPrice("D", fixedpoint.WAD); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	borrower := types.AccountID("borrower")
	liquidator := types.AccountID("liquidator")

	if err := c.Deposit(ctx, borrower, "C", big.NewInt(1000)); err != nil {
		t.Fatal(err)
	}
	if err := c.Deposit(ctx, liquidator, "D", big.NewInt(1000)); err != nil {
		t.Fatal(err)
	}
	if err := c.Borrow(ctx, borrower, "D", big.NewInt(100), borrower); err != nil {
		t.Fatal(err)
	}

	_, _, err := c.Liquidate(ctx, liquidator, borrower, "C", "D", big.NewInt(50))
	if err != poolerr.ErrPositionHealthy {
		t.Errorf("got %v, want ErrPositionHealthy", err)
	}
}

// Borrow then repay with the MAX sentinel repays exactly the debt and leaves
// no residual scaled debt balance.
func TestRepayMaxClearsDebt(t *testing.T) {
	c, o, _ := newTestController(t)
	mustInitReserve(t, c, "D", 7500, 8000, 500)
	if err := o.SetPrice("D", fixedpoint.WAD); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	user := types.AccountID("user1")

	if err := c.Deposit(ctx, user, "D", big.NewInt(1000)); err != nil {
		t.Fatal(err)
	}
	if err := c.Borrow(ctx, user, "D", big.NewInt(500), user); err != nil {
		t.Fatal(err)
	}
	if err := c.Deposit(ctx, types.AccountID("payer"), "D", big.NewInt(500)); err != nil {
		t.Fatal(err)
	}

	repaid, err := c.Repay(ctx, user, "D", MaxAmount(), user)
	if err != nil {
		t.Fatalf("Repay: %v", err)
	}
	if repaid.Cmp(big.NewInt(500)) != 0 {
		t.Errorf("repaid = %v, want 500", repaid)
	}

	r, rerr := c.ReserveInfo("D")
	if rerr != nil {
		t.Fatal(rerr)
	}
	if r.DebtClaim.BalanceOf(user).Sign() != 0 {
		t.Error("expected zero scaled debt balance after MAX repay")
	}
}

func TestWithdrawMaxReturnsFullBalance(t *testing.T) {
	c, o, _ := newTestController(t)
	mustInitReserve(t, c, "D", 7500, 8000, 500)
	if err := o.SetPrice("D", fixedpoint.WAD); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	user := types.AccountID("user1")

	if err := c.Deposit(ctx, user, "D", big.NewInt(1000)); err != nil {
		t.Fatal(err)
	}
	out, err := c.Withdraw(ctx, user, "D", MaxAmount())
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if out.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("withdrawn = %v, want 1000", out)
	}

	r, rerr := c.ReserveInfo("D")
	if rerr != nil {
		t.Fatal(rerr)
	}
	if r.SupplyClaim.BalanceOf(user).Sign() != 0 {
		t.Error("expected zero scaled supply balance after MAX withdraw")
	}
}

// Admin operations are gated; a non-admin caller is rejected.
func TestAdminOperationsRequireRole(t *testing.T) {
	c, _, _ := newTestController(t)
	stranger := types.AccountID("stranger")

	if err := c.InitializeReserve(stranger, "D", testRisk(7500, 8000, 500), testModel()); err != poolerr.ErrUnauthorized {
		t.Errorf("InitializeReserve: got %v, want ErrUnauthorized", err)
	}
	mustInitReserve(t, c, "D", 7500, 8000, 500)
	if err := c.FreezeReserve(stranger, "D"); err != poolerr.ErrUnauthorized {
		t.Errorf("FreezeReserve: got %v, want ErrUnauthorized", err)
	}
	if err := c.Pause(stranger); err != poolerr.ErrUnauthorized {
		t.Errorf("Pause: got %v, want ErrUnauthorized", err)
	}
}

// A frozen reserve rejects new deposits but still allows withdrawal.
func TestFrozenReserveBlocksDepositNotWithdraw(t *testing.T) {
	c, o, _ := newTestController(t)
	mustInitReserve(t, c, "D", 7500, 8000, 500)
	if err := o.SetPrice("D", fixedpoint.WAD); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	user := types.AccountID("user1")

	if err := c.Deposit(ctx, user, "D", big.NewInt(1000)); err != nil {
		t.Fatal(err)
	}
	if err := c.FreezeReserve(admin, "D"); err != nil {
		t.Fatal(err)
	}
	if err := c.Deposit(ctx, user, "D", big.NewInt(100)); err != poolerr.ErrReserveFrozen {
		t.Errorf("Deposit on frozen reserve: got %v, want ErrReserveFrozen", err)
	}
	if _, err := c.Withdraw(ctx, user, "D", big.NewInt(100)); err != nil {
		t.Errorf("Withdraw on frozen reserve should still succeed: %v", err)
	}
}

// Pausing the pool blocks deposits but not withdrawals.
func TestPauseBlocksOperations(t *testing.T) {
	c, o, _ := newTestController(t)
	mustInitReserve(t, c, "D", 7500, 8000, 500)
	if err := o.SetPrice("D", fixedpoint.WAD); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	user := types.AccountID("user1")

	if err := c.Deposit(ctx, user, "D", big.NewInt(1000)); err != nil {
		t.Fatal(err)
	}
	if err := c.Pause(admin); err != nil {
		t.Fatal(err)
	}
	if err := c.Deposit(ctx, user, "D", big.NewInt(100)); err != poolerr.ErrPoolPaused {
		t.Errorf("Deposit while paused: got %v, want ErrPoolPaused", err)
	}
	// Withdrawals remain available while paused so callers can reduce risk.
	if _, err := c.Withdraw(ctx, user, "D", big.NewInt(100)); err != nil {
		t.Errorf("Withdraw while paused: got %v, want nil", err)
	}
}

// Borrowing on behalf of another account requires a sufficient delegation
// allowance.
func TestBorrowRequiresDelegation(t *testing.T) {
	c, o, _ := newTestController(t)
	mustInitReserve(t, c, "D", 7500, 8000, 500)
	if err := o.SetPrice("D", fixedpoint.WAD); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	owner := types.AccountID("owner")
	delegate := types.AccountID("delegate")

	if err := c.Deposit(ctx, owner, "D", big.NewInt(1000)); err != nil {
		t.Fatal(err)
	}
	if err := c.Borrow(ctx, delegate, "D", big.NewInt(100), owner); err != poolerr.ErrDelegationRequired {
		t.Errorf("Borrow without delegation: got %v, want ErrDelegationRequired", err)
	}

	if err := c.ApproveDelegation(owner, delegate, "D", big.NewInt(200)); err != nil {
		t.Fatal(err)
	}
	if err := c.Borrow(ctx, delegate, "D", big.NewInt(100), owner); err != nil {
		t.Errorf("Borrow with sufficient delegation: %v", err)
	}
}

// Collateral and debt asset must differ for a liquidation call.
func TestLiquidateSameAssetRejected(t *testing.T) {
	c, o, _ := newTestController(t)
	mustInitReserve(t, c, "D", 7500, 8000, 500)
	if err := o.SetPrice("D", fixedpoint.WAD); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, _, err := c.Liquidate(ctx, "liquidator", "borrower", "D", "D", big.NewInt(1)); err != poolerr.ErrSameAsset {
		t.Errorf("got %v, want ErrSameAsset", err)
	}
}

package pool

import (
	"math/big"

	"github.com/palaseus/adrenolend/pkg/claimledger"
	"github.com/palaseus/adrenolend/pkg/types"
)

// DepositEvent is emitted exactly once per successful deposit.
type DepositEvent struct {
	User        types.AccountID
	Asset       types.AssetID
	Amount      *big.Int
	ClaimMinted *big.Int
}

// WithdrawEvent is emitted exactly once per successful withdrawal.
type WithdrawEvent struct {
	User   types.AccountID
	Asset  types.AssetID
	Amount *big.Int
}

// BorrowEvent is emitted exactly once per successful borrow.
type BorrowEvent struct {
	User   types.AccountID
	Asset  types.AssetID
	Amount *big.Int
}

// RepayEvent is emitted exactly once per successful repayment.
type RepayEvent struct {
	User   types.AccountID
	Asset  types.AssetID
	Amount *big.Int
}

// LiquidationEvent is emitted exactly once per successful liquidation.
type LiquidationEvent struct {
	Liquidator       types.AccountID
	Borrower         types.AccountID
	CollateralAsset  types.AssetID
	DebtAsset        types.AssetID
	DebtCovered      *big.Int
	CollateralSeized *big.Int
}

// ReserveInitializedEvent is emitted once when a reserve is created,
// carrying the asset and the handles of the supply-claim and debt-claim
// ledgers minted for it.
type ReserveInitializedEvent struct {
	Asset       types.AssetID
	SupplyClaim *claimledger.SupplyLedger
	DebtClaim   *claimledger.DebtLedger
}

// InterestEvent records each accrual's resulting rates and utilization.
type InterestEvent struct {
	Asset         types.AssetID
	LiquidityRate *big.Int
	BorrowRate    *big.Int
	Utilization   *big.Int
}

// eventLog accumulates every event kind the controller emits, one slice
// per kind.
type eventLog struct {
	Deposits     []DepositEvent
	Withdraws    []WithdrawEvent
	Borrows      []BorrowEvent
	Repays       []RepayEvent
	Liquidations []LiquidationEvent
	Reserves     []ReserveInitializedEvent
	Interest     []InterestEvent
}

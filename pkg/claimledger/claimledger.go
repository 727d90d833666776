// Package claimledger implements the per-reserve supply-claim and
// debt-claim balance ledgers: scaled, non-negative per-account balances
// that translate to underlying amounts through a reserve's current index.
// Each ledger is a freestanding component rather than embedded fields on
// a user aggregate.
package claimledger

import (
	"math/big"
	"sync"

	"github.com/palaseus/adrenolend/pkg/fixedpoint"
	"github.com/palaseus/adrenolend/pkg/poolerr"
	"github.com/palaseus/adrenolend/pkg/types"
)

// MintEvent, BurnEvent, and TransferEvent are the ledger-level event
// records each claim ledger additionally emits.
type MintEvent struct {
	Account types.AccountID
	Amount  *big.Int // scaled
}

// BurnEvent records a ledger burn.
type BurnEvent struct {
	Account types.AccountID
	Amount  *big.Int // scaled
}

// TransferEvent records a supply-claim transfer-on-liquidation.
type TransferEvent struct {
	From, To types.AccountID
	Amount   *big.Int // scaled
}

// SupplyLedger is the supply-claim ledger: mint on deposit, burn on
// withdrawal, and transfer on liquidation — the only transfer the core
// requires; general transferability between arbitrary accounts is not
// supported.
type SupplyLedger struct {
	mu          sync.Mutex
	balances    map[types.AccountID]*big.Int
	totalSupply *big.Int

	Mints     []MintEvent
	Burns     []BurnEvent
	Transfers []TransferEvent
}

// NewSupplyLedger creates an empty supply-claim ledger.
func NewSupplyLedger() *SupplyLedger {
	return &SupplyLedger{
		balances:    make(map[types.AccountID]*big.Int),
		totalSupply: big.NewInt(0),
	}
}

// BalanceOf returns an account's scaled supply-claim balance.
func (l *SupplyLedger) BalanceOf(account types.AccountID) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceLocked(account)
}

func (l *SupplyLedger) balanceLocked(account types.AccountID) *big.Int {
	if b, ok := l.balances[account]; ok {
		return new(big.Int).Set(b)
	}
	return big.NewInt(0)
}

// TotalSupply returns the ledger's total scaled supply.
func (l *SupplyLedger) TotalSupply() *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.totalSupply)
}

// Mint increases an account's scaled balance and the total supply.
func (l *SupplyLedger) Mint(account types.AccountID, scaledAmount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	newBal, err := fixedpoint.Add(l.balanceLocked(account), scaledAmount)
	if err != nil {
		return err
	}
	newTotal, err := fixedpoint.Add(l.totalSupply, scaledAmount)
	if err != nil {
		return err
	}
	l.balances[account] = newBal
	l.totalSupply = newTotal
	l.Mints = append(l.Mints, MintEvent{Account: account, Amount: new(big.Int).Set(scaledAmount)})
	return nil
}

// Burn decreases an account's scaled balance and the total supply.
func (l *SupplyLedger) Burn(account types.AccountID, scaledAmount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur := l.balanceLocked(account)
	if cur.Cmp(scaledAmount) < 0 {
		return poolerr.ErrInsufficientBalance
	}
	newBal, err := fixedpoint.Sub(cur, scaledAmount)
	if err != nil {
		return err
	}
	newTotal, err := fixedpoint.Sub(l.totalSupply, scaledAmount)
	if err != nil {
		return err
	}
	l.balances[account] = newBal
	l.totalSupply = newTotal
	l.Burns = append(l.Burns, BurnEvent{Account: account, Amount: new(big.Int).Set(scaledAmount)})
	return nil
}

// TransferOnLiquidation moves a scaled amount of supply-claim balance from
// borrower to liquidator. This is the only transfer the core supports.
func (l *SupplyLedger) TransferOnLiquidation(from, to types.AccountID, scaledAmount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	fromBal := l.balanceLocked(from)
	if fromBal.Cmp(scaledAmount) < 0 {
		return poolerr.ErrInsufficientCollateral
	}
	newFrom, err := fixedpoint.Sub(fromBal, scaledAmount)
	if err != nil {
		return err
	}
	newTo, err := fixedpoint.Add(l.balanceLocked(to), scaledAmount)
	if err != nil {
		return err
	}
	l.balances[from] = newFrom
	l.balances[to] = newTo
	l.Transfers = append(l.Transfers, TransferEvent{From: from, To: to, Amount: new(big.Int).Set(scaledAmount)})
	return nil
}

// DebtLedger is the debt-claim ledger: mint on borrow, burn on repay or
// liquidation. Transfers and approvals are not supported: there is simply
// no method here to perform them.
type DebtLedger struct {
	mu          sync.Mutex
	balances    map[types.AccountID]*big.Int
	totalSupply *big.Int

	Mints []MintEvent
	Burns []BurnEvent
}

// NewDebtLedger creates an empty debt-claim ledger.
func NewDebtLedger() *DebtLedger {
	return &DebtLedger{
		balances:    make(map[types.AccountID]*big.Int),
		totalSupply: big.NewInt(0),
	}
}

// BalanceOf returns an account's scaled debt-claim balance.
func (l *DebtLedger) BalanceOf(account types.AccountID) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceLocked(account)
}

func (l *DebtLedger) balanceLocked(account types.AccountID) *big.Int {
	if b, ok := l.balances[account]; ok {
		return new(big.Int).Set(b)
	}
	return big.NewInt(0)
}

// TotalSupply returns the ledger's total scaled debt.
func (l *DebtLedger) TotalSupply() *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.totalSupply)
}

// Mint increases an account's scaled debt balance.
func (l *DebtLedger) Mint(account types.AccountID, scaledAmount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	newBal, err := fixedpoint.Add(l.balanceLocked(account), scaledAmount)
	if err != nil {
		return err
	}
	newTotal, err := fixedpoint.Add(l.totalSupply, scaledAmount)
	if err != nil {
		return err
	}
	l.balances[account] = newBal
	l.totalSupply = newTotal
	l.Mints = append(l.Mints, MintEvent{Account: account, Amount: new(big.Int).Set(scaledAmount)})
	return nil
}

// Burn decreases an account's scaled debt balance.
func (l *DebtLedger) Burn(account types.AccountID, scaledAmount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur := l.balanceLocked(account)
	if cur.Cmp(scaledAmount) < 0 {
		return poolerr.ErrInsufficientBalance
	}
	newBal, err := fixedpoint.Sub(cur, scaledAmount)
	if err != nil {
		return err
	}
	newTotal, err := fixedpoint.Sub(l.totalSupply, scaledAmount)
	if err != nil {
		return err
	}
	l.balances[account] = newBal
	l.totalSupply = newTotal
	l.Burns = append(l.Burns, BurnEvent{Account: account, Amount: new(big.Int).Set(scaledAmount)})
	return nil
}

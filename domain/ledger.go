package domain

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"go.uber.org/atomic"

	"custody-ledger/events"
	"custody-ledger/shared"
)

// Ledger is the custodial balance book. It owns all balance state
// exclusively and serializes every mutating operation: guards run first,
// internal state reaches its intended post-operation value, and only then is
// the external custodian invoked. If the custodian fails, the mutation is
// rolled back so the operation aborts as a unit.
//
// Both caps are fixed at construction and never mutated, guaranteeing users
// a stable, auditable ceiling.
type Ledger struct {
	mu        sync.Mutex
	registry  *AssetRegistry
	valuator  *Valuator
	custodian Custodian
	recorder  Recorder

	bankCap         uint64 // accounting units
	withdrawalLimit uint64 // accounting units, per single withdrawal

	balances    map[shared.UserID]map[shared.AssetID]uint64 // accounting-precision base units
	assetTotals map[shared.AssetID]uint64
	heldValue   uint64 // running accounting-value of everything held

	deposits    atomic.Uint64
	withdrawals atomic.Uint64
	conversions atomic.Uint64
}

func NewLedger(registry *AssetRegistry, valuator *Valuator, custodian Custodian, recorder Recorder, bankCap, withdrawalLimit uint64) *Ledger {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Ledger{
		registry:        registry,
		valuator:        valuator,
		custodian:       custodian,
		recorder:        recorder,
		bankCap:         bankCap,
		withdrawalLimit: withdrawalLimit,
		balances:        make(map[shared.UserID]map[shared.AssetID]uint64),
		assetTotals:     make(map[shared.AssetID]uint64),
	}
}

// Deposit credits amount (asset-native base units) of asset to the user.
// The bank cap is checked against the oracle value before any mutation, and
// the raw asset is pulled from the user only after the books already reflect
// the deposit.
func (l *Ledger) Deposit(user shared.UserID, asset shared.AssetID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount == 0 {
		return fmt.Errorf("%w: deposit of %q", ErrAmountMustBePositive, asset)
	}
	entry, ok := l.registry.Lookup(asset)
	if !ok || !entry.Active {
		return fmt.Errorf("%w: %q", ErrAssetNotSupported, asset)
	}

	value, err := l.valuator.Value(entry, amount)
	if err != nil {
		return fmt.Errorf("valuing deposit of %d %s: %w", amount, asset, err)
	}
	newHeld, err := checkedAdd(l.heldValue, value)
	if err != nil {
		return fmt.Errorf("bank value total: %w", err)
	}
	if newHeld > l.bankCap {
		return fmt.Errorf("%w: %d + %d > %d", ErrBankCapExceeded, l.heldValue, value, l.bankCap)
	}

	normalized, err := Normalize(amount, entry.Precision, shared.AccountingPrecision)
	if err != nil {
		return fmt.Errorf("normalizing deposit of %d %s: %w", amount, asset, err)
	}
	newBalance, err := checkedAdd(l.balanceOf(user, asset), normalized)
	if err != nil {
		return fmt.Errorf("user balance: %w", err)
	}
	newTotal, err := checkedAdd(l.assetTotals[asset], normalized)
	if err != nil {
		return fmt.Errorf("asset total: %w", err)
	}

	// Effects before interaction: the books reflect the deposit before the
	// custodian (which may re-enter) runs.
	l.setBalance(user, asset, newBalance)
	l.assetTotals[asset] = newTotal
	l.heldValue = newHeld

	if err := l.custodian.TransferFrom(user, asset, amount); err != nil {
		l.setBalance(user, asset, newBalance-normalized)
		l.assetTotals[asset] = newTotal - normalized
		l.heldValue = saturatingSub(l.heldValue, value)
		return fmt.Errorf("%w: pulling %d %s from %s: %v", ErrTransferFailed, amount, asset, user, err)
	}

	l.deposits.Inc()
	log.Printf("Deposit: user=%s asset=%s raw=%d value=%d heldValue=%d", user, asset, amount, value, l.heldValue)
	l.recorder.Record(events.DepositedEvent{
		BaseEvent:       events.NewBaseEvent(events.DepositedType),
		User:            user,
		Asset:           asset,
		RawAmount:       amount,
		AccountingValue: value,
	})
	return nil
}

// Withdraw debits amount (asset-native base units) of asset from the user
// and pushes the raw asset out. Deregistered assets remain withdrawable;
// only assets that were never registered are rejected.
func (l *Ledger) Withdraw(user shared.UserID, asset shared.AssetID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount == 0 {
		return fmt.Errorf("%w: withdrawal of %q", ErrAmountMustBePositive, asset)
	}
	entry, ok := l.registry.Lookup(asset)
	if !ok {
		return fmt.Errorf("%w: %q", ErrAssetNotSupported, asset)
	}

	value, err := l.valuator.Value(entry, amount)
	if err != nil {
		return fmt.Errorf("valuing withdrawal of %d %s: %w", amount, asset, err)
	}
	if value > l.withdrawalLimit {
		return fmt.Errorf("%w: %d > %d", ErrWithdrawalLimitExceeded, value, l.withdrawalLimit)
	}

	normalized, err := Normalize(amount, entry.Precision, shared.AccountingPrecision)
	if err != nil {
		return fmt.Errorf("normalizing withdrawal of %d %s: %w", amount, asset, err)
	}
	newBalance, err := checkedSub(l.balanceOf(user, asset), normalized)
	if err != nil {
		return fmt.Errorf("user %s asset %s: %w", user, asset, err)
	}
	newTotal, err := checkedSub(l.assetTotals[asset], normalized)
	if err != nil {
		return fmt.Errorf("asset total for %s: %w", asset, err)
	}
	previousHeld := l.heldValue

	l.setBalance(user, asset, newBalance)
	l.assetTotals[asset] = newTotal
	l.heldValue = saturatingSub(l.heldValue, value)

	if err := l.custodian.Transfer(user, asset, amount); err != nil {
		l.setBalance(user, asset, newBalance+normalized)
		l.assetTotals[asset] = newTotal + normalized
		l.heldValue = previousHeld
		return fmt.Errorf("%w: pushing %d %s to %s: %v", ErrTransferFailed, amount, asset, user, err)
	}

	l.withdrawals.Inc()
	log.Printf("Withdrawal: user=%s asset=%s raw=%d value=%d heldValue=%d", user, asset, amount, value, l.heldValue)
	l.recorder.Record(events.WithdrawnEvent{
		BaseEvent:       events.NewBaseEvent(events.WithdrawnType),
		User:            user,
		Asset:           asset,
		RawAmount:       amount,
		AccountingValue: value,
	})
	return nil
}

// creditConverted books swap proceeds that are already sitting in the vault.
// The accounting asset is worth one accounting unit per unit by definition,
// so the cap check runs on the realized normalized amount, never a pre-trade
// estimate. No custodian call is made.
func (l *Ledger) creditConverted(user shared.UserID, entry CatalogEntry, amountOut uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	normalized, err := Normalize(amountOut, entry.Precision, shared.AccountingPrecision)
	if err != nil {
		return 0, fmt.Errorf("normalizing conversion proceeds %d %s: %w", amountOut, entry.ID, err)
	}
	newHeld, err := checkedAdd(l.heldValue, normalized)
	if err != nil {
		return 0, fmt.Errorf("bank value total: %w", err)
	}
	if newHeld > l.bankCap {
		return 0, fmt.Errorf("%w: %d + %d > %d", ErrBankCapExceeded, l.heldValue, normalized, l.bankCap)
	}
	newBalance, err := checkedAdd(l.balanceOf(user, entry.ID), normalized)
	if err != nil {
		return 0, fmt.Errorf("user balance: %w", err)
	}
	newTotal, err := checkedAdd(l.assetTotals[entry.ID], normalized)
	if err != nil {
		return 0, fmt.Errorf("asset total: %w", err)
	}

	l.setBalance(user, entry.ID, newBalance)
	l.assetTotals[entry.ID] = newTotal
	l.heldValue = newHeld

	l.recorder.Record(events.DepositedEvent{
		BaseEvent:       events.NewBaseEvent(events.DepositedType),
		User:            user,
		Asset:           entry.ID,
		RawAmount:       amountOut,
		AccountingValue: normalized,
	})
	return normalized, nil
}

// --- Queries ---
// Pure reads. Unknown user/asset combinations read as zero, never fail.

// Balance returns the user's holding of asset in accounting-precision base
// units.
func (l *Ledger) Balance(user shared.UserID, asset shared.AssetID) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceOf(user, asset)
}

// Balances returns every non-zero holding of the user, sorted by asset.
func (l *Ledger) Balances(user shared.UserID) []shared.Balance {
	l.mu.Lock()
	defer l.mu.Unlock()

	holdings := l.balances[user]
	list := make([]shared.Balance, 0, len(holdings))
	for asset, amount := range holdings {
		if amount > 0 {
			list = append(list, shared.Balance{Asset: asset, Amount: amount})
		}
	}
	sortBalances(list)
	return list
}

// AssetTotal returns the aggregate holding of asset across all users.
func (l *Ledger) AssetTotal(asset shared.AssetID) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.assetTotals[asset]
}

// HeldValue returns the running accounting-value of everything held.
func (l *Ledger) HeldValue() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heldValue
}

// BankCap returns the immutable bank-wide value cap.
func (l *Ledger) BankCap() uint64 { return l.bankCap }

// WithdrawalLimit returns the immutable per-withdrawal value cap.
func (l *Ledger) WithdrawalLimit() uint64 { return l.withdrawalLimit }

// DepositCount, WithdrawalCount and ConversionCount are monotonic audit
// counters of completed operations. Never used for authorization.
func (l *Ledger) DepositCount() uint64    { return l.deposits.Load() }
func (l *Ledger) WithdrawalCount() uint64 { return l.withdrawals.Load() }
func (l *Ledger) ConversionCount() uint64 { return l.conversions.Load() }

func (l *Ledger) balanceOf(user shared.UserID, asset shared.AssetID) uint64 {
	return l.balances[user][asset]
}

func sortBalances(list []shared.Balance) {
	sort.Slice(list, func(i, j int) bool { return list[i].Asset < list[j].Asset })
}

func (l *Ledger) setBalance(user shared.UserID, asset shared.AssetID, amount uint64) {
	holdings, ok := l.balances[user]
	if !ok {
		holdings = make(map[shared.AssetID]uint64)
		l.balances[user] = holdings
	}
	holdings[asset] = amount
}

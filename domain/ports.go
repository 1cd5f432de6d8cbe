package domain

import (
	"custody-ledger/events"
	"custody-ledger/shared"
)

// Custodian is the external asset-transfer primitive: pull on deposit, push
// on withdrawal, plus visibility into the vault's own holdings. A failed
// transfer must surface as an error, never silently. Implementations are
// untrusted and may re-enter the system.
type Custodian interface {
	// TransferFrom pulls amount base units of asset from the user into the
	// vault.
	TransferFrom(user shared.UserID, asset shared.AssetID, amount uint64) error
	// Transfer pushes amount base units of asset from the vault to the user.
	Transfer(user shared.UserID, asset shared.AssetID, amount uint64) error
	// BalanceOf reports the vault's own holding of asset.
	BalanceOf(asset shared.AssetID) (uint64, error)
}

// Exchange executes a swap of assetIn held in the vault into assetOut. Its
// outcome is never trusted directly; callers verify via observed balance
// delta.
type Exchange interface {
	Swap(assetIn, assetOut shared.AssetID, amountIn, minAmountOut uint64) error
}

// Recorder receives observability events after an operation has fully
// succeeded. Recording is audit-only and must not fail the operation.
type Recorder interface {
	Record(event events.Event)
}

// NopRecorder discards events.
type NopRecorder struct{}

func (NopRecorder) Record(events.Event) {}

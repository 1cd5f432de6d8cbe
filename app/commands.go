package app

import (
	"github.com/shopspring/decimal"

	"custody-ledger/shared"
)

// --- Command Struct Definitions ---
// Commands represent the intent to perform an action or change state in the
// system. Amounts are human-readable decimals in whole tokens; the service
// converts them to base units at the asset's native precision.

type RegisterAssetCommand struct {
	Caller      shared.Principal
	Asset       shared.AssetID
	PriceSource shared.SourceID
	Precision   uint32
}

type DeregisterAssetCommand struct {
	Caller shared.Principal
	Asset  shared.AssetID
}

type TransferOwnershipCommand struct {
	Caller   shared.Principal
	NewOwner shared.Principal
}

type DepositCommand struct {
	User   shared.UserID
	Asset  shared.AssetID
	Amount decimal.Decimal
}

type WithdrawCommand struct {
	User   shared.UserID
	Asset  shared.AssetID
	Amount decimal.Decimal
}

// ConvertDepositCommand deposits an arbitrary asset via the conversion
// engine. MinOut is the caller's bound on proceeds in accounting-currency
// whole units; when zero, the service derives it from the oracle estimate
// using SlippageBps.
type ConvertDepositCommand struct {
	User        shared.UserID
	Asset       shared.AssetID
	Amount      decimal.Decimal
	MinOut      decimal.Decimal
	SlippageBps uint32
}

// --- Query Structures (Input for Read Operations) ---

type GetBalanceQuery struct {
	User  shared.UserID
	Asset *shared.AssetID
}

type GetHistoryQuery struct {
	Limit int
	Skip  int
}

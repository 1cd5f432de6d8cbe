package events

import (
	"custody-ledger/shared"
)

type DepositedEvent struct {
	BaseEvent
	User            shared.UserID  `json:"user"`
	Asset           shared.AssetID `json:"asset"`
	RawAmount       uint64         `json:"rawAmount"`       // asset-native base units
	AccountingValue uint64         `json:"accountingValue"` // value at deposit time, accounting units
}

type WithdrawnEvent struct {
	BaseEvent
	User            shared.UserID  `json:"user"`
	Asset           shared.AssetID `json:"asset"`
	RawAmount       uint64         `json:"rawAmount"`
	AccountingValue uint64         `json:"accountingValue"`
}

type AssetConvertedEvent struct {
	BaseEvent
	User      shared.UserID  `json:"user"`
	AssetIn   shared.AssetID `json:"assetIn"`
	AssetOut  shared.AssetID `json:"assetOut"`
	AmountIn  uint64         `json:"amountIn"`  // assetIn native base units
	AmountOut uint64         `json:"amountOut"` // realized output, assetOut native base units
}

type AssetRegisteredEvent struct {
	BaseEvent
	Asset       shared.AssetID  `json:"asset"`
	PriceSource shared.SourceID `json:"priceSource"`
	Precision   uint32          `json:"precision"`
}

type AssetDeregisteredEvent struct {
	BaseEvent
	Asset shared.AssetID `json:"asset"`
}

type OwnershipTransferredEvent struct {
	BaseEvent
	PreviousOwner shared.Principal `json:"previousOwner"`
	NewOwner      shared.Principal `json:"newOwner"`
}

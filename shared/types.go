package shared

// AssetID is an opaque handle identifying a depositable asset.
type AssetID string

// NativeAsset is the reserved handle for the chain-native base currency.
const NativeAsset AssetID = "NATIVE"

// UserID identifies a custody customer.
type UserID string

// Principal identifies an administrative caller for access-controlled
// operations.
type Principal string

// SourceID is the handle binding an asset to its external price source.
// The empty value is invalid.
type SourceID string

// AccountingPrecision is the number of fractional digits used for all
// internal value bookkeeping, independent of any asset's native precision.
const AccountingPrecision uint32 = 8

// Balance pairs an asset with a base-unit amount at accounting precision.
type Balance struct {
	Asset  AssetID `json:"asset"`
	Amount uint64  `json:"amount"`
}

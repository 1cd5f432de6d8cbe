package market

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/shopspring/decimal"

	"custody-ledger/domain"
	"custody-ledger/shared"
)

// RateExchange simulates the external swap venue against the custodian's
// vault: it consumes the input asset from the vault and credits the output
// asset at a configured whole-token rate. An output override lets tests make
// the venue under-deliver or misreport.
type RateExchange struct {
	mu         sync.Mutex
	custodian  *InMemoryCustodian
	rates      map[string]decimal.Decimal
	precisions map[shared.AssetID]uint32

	outputOverride *uint64
}

func NewRateExchange(custodian *InMemoryCustodian) *RateExchange {
	return &RateExchange{
		custodian:  custodian,
		rates:      make(map[string]decimal.Decimal),
		precisions: make(map[shared.AssetID]uint32),
	}
}

// SetPrecision declares an asset's native precision so rates can be applied
// in whole-token terms.
func (x *RateExchange) SetPrecision(asset shared.AssetID, precision uint32) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.precisions[asset] = precision
}

// SetRate configures how many whole tokens of assetOut one whole token of
// assetIn buys.
func (x *RateExchange) SetRate(assetIn, assetOut shared.AssetID, rate decimal.Decimal) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.rates[pairKey(assetIn, assetOut)] = rate
}

// OverrideNextOutput forces the next swap to deliver exactly amount of the
// output asset, ignoring the configured rate and the minimum. Tests only.
func (x *RateExchange) OverrideNextOutput(amount uint64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.outputOverride = &amount
}

func (x *RateExchange) Swap(assetIn, assetOut shared.AssetID, amountIn, minAmountOut uint64) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	var out uint64
	if x.outputOverride != nil {
		out = *x.outputOverride
		x.outputOverride = nil
	} else {
		rate, ok := x.rates[pairKey(assetIn, assetOut)]
		if !ok {
			return fmt.Errorf("no market for %s/%s", assetIn, assetOut)
		}
		precIn, precOut := x.precisions[assetIn], x.precisions[assetOut]

		in := decimal.NewFromBigInt(new(big.Int).SetUint64(amountIn), -int32(precIn))
		scaled := in.Mul(rate).Shift(int32(precOut)).Floor()
		bi := scaled.BigInt()
		if !bi.IsUint64() {
			return fmt.Errorf("swap output of %s %s does not fit in 64 bits", scaled, assetOut)
		}
		out = bi.Uint64()

		// An honest venue refuses rather than under-delivers.
		if out < minAmountOut {
			return fmt.Errorf("quote %d %s below minimum %d", out, assetOut, minAmountOut)
		}
	}

	if err := x.custodian.debitVault(assetIn, amountIn); err != nil {
		return err
	}
	x.custodian.creditVault(assetOut, out)
	return nil
}

func pairKey(assetIn, assetOut shared.AssetID) string {
	return string(assetIn) + "/" + string(assetOut)
}

var _ domain.Exchange = (*RateExchange)(nil)

package domain

import (
	"fmt"

	"custody-ledger/shared"
)

// Valuator converts asset-native amounts into their value in the accounting
// currency using the oracle gateway.
type Valuator struct {
	gateway *OracleGateway
}

func NewValuator(gateway *OracleGateway) *Valuator {
	return &Valuator{gateway: gateway}
}

// Value returns the accounting-unit value of amount base units of the given
// catalog entry's asset. A zero amount is worth zero and skips the oracle
// read entirely. Gateway failures propagate unchanged.
func (v *Valuator) Value(entry CatalogEntry, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, nil
	}
	price, err := v.gateway.Price(entry.PriceSource)
	if err != nil {
		return 0, err
	}
	normalized, err := Normalize(amount, entry.Precision, shared.AccountingPrecision)
	if err != nil {
		return 0, fmt.Errorf("normalizing %d of %q: %w", amount, entry.ID, err)
	}
	return mulDiv(normalized, price, accountingUnit())
}

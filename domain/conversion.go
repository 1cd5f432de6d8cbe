package domain

import (
	"fmt"
	"log"

	"custody-ledger/events"
	"custody-ledger/shared"
)

const (
	// MaxSlippageBps caps the tolerance a caller may request from
	// EstimateMinOut, so a degenerate near-zero minimum cannot defeat the
	// protection.
	MaxSlippageBps uint32 = 200
	bpsDenominator uint64 = 10_000
)

// ConversionEngine accepts deposits in arbitrary registered assets and
// normalizes them into the accounting asset through an external exchange.
// The exchange's outcome is never trusted: the engine measures the vault's
// accounting-asset balance before and after the swap and books only the
// observed delta.
type ConversionEngine struct {
	ledger          *Ledger
	registry        *AssetRegistry
	valuator        *Valuator
	custodian       Custodian
	exchange        Exchange
	recorder        Recorder
	accountingAsset shared.AssetID
}

func NewConversionEngine(ledger *Ledger, registry *AssetRegistry, valuator *Valuator, custodian Custodian, exchange Exchange, recorder Recorder, accountingAsset shared.AssetID) *ConversionEngine {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &ConversionEngine{
		ledger:          ledger,
		registry:        registry,
		valuator:        valuator,
		custodian:       custodian,
		exchange:        exchange,
		recorder:        recorder,
		accountingAsset: accountingAsset,
	}
}

// DepositConverted deposits amount (asset-native base units) of an arbitrary
// registered asset, converting it into the accounting asset first.
// minAccountingOut is the caller's lower bound on conversion proceeds, in
// accounting units. Deposits of the accounting asset itself skip conversion.
//
// When the verified output falls short of the bound, or the bank cap rejects
// the realized amount, the already-pulled input is NOT refunded: it stays in
// the vault pending manual recovery, because the venue may have consumed it
// and a refund would falsify the books.
func (e *ConversionEngine) DepositConverted(user shared.UserID, asset shared.AssetID, amount, minAccountingOut uint64) error {
	if asset == e.accountingAsset {
		return e.ledger.Deposit(user, asset, amount)
	}

	if amount == 0 {
		return fmt.Errorf("%w: converted deposit of %q", ErrAmountMustBePositive, asset)
	}
	if !e.registry.IsSupported(asset) {
		return fmt.Errorf("%w: %q", ErrAssetNotSupported, asset)
	}
	accEntry, ok := e.registry.Lookup(e.accountingAsset)
	if !ok {
		return fmt.Errorf("%w: accounting asset %q not registered", ErrAssetNotSupported, e.accountingAsset)
	}

	if err := e.custodian.TransferFrom(user, asset, amount); err != nil {
		return fmt.Errorf("%w: pulling %d %s from %s: %v", ErrTransferFailed, amount, asset, user, err)
	}

	before, err := e.custodian.BalanceOf(e.accountingAsset)
	if err != nil {
		return fmt.Errorf("reading vault balance before swap: %w", err)
	}

	minNative, err := Normalize(minAccountingOut, shared.AccountingPrecision, accEntry.Precision)
	if err != nil {
		return fmt.Errorf("normalizing minimum output: %w", err)
	}
	if err := e.exchange.Swap(asset, e.accountingAsset, amount, minNative); err != nil {
		log.Printf("WARNING: swap %d %s -> %s rejected by venue, input quarantined in vault: %v", amount, asset, e.accountingAsset, err)
		return fmt.Errorf("%w: venue rejected %d %s: %v", ErrSwapBelowMinimum, amount, asset, err)
	}

	after, err := e.custodian.BalanceOf(e.accountingAsset)
	if err != nil {
		return fmt.Errorf("reading vault balance after swap: %w", err)
	}

	// The observed delta is the only trusted measure of the swap's output.
	var actualNative uint64
	if after > before {
		actualNative = after - before
	}
	actualOut, err := Normalize(actualNative, accEntry.Precision, shared.AccountingPrecision)
	if err != nil {
		return fmt.Errorf("normalizing swap proceeds: %w", err)
	}
	if actualOut < minAccountingOut {
		log.Printf("WARNING: swap of %d %s produced %d, below minimum %d; input quarantined in vault", amount, asset, actualOut, minAccountingOut)
		return fmt.Errorf("%w: got %d, wanted at least %d", ErrSwapBelowMinimum, actualOut, minAccountingOut)
	}

	credited, err := e.ledger.creditConverted(user, accEntry, actualNative)
	if err != nil {
		log.Printf("WARNING: conversion proceeds of %d %s rejected by ledger, quarantined in vault: %v", actualNative, e.accountingAsset, err)
		return fmt.Errorf("crediting conversion proceeds: %w", err)
	}

	e.ledger.conversions.Inc()
	log.Printf("Conversion: user=%s %d %s -> %d %s (credited %d)", user, amount, asset, actualNative, e.accountingAsset, credited)
	e.recorder.Record(events.AssetConvertedEvent{
		BaseEvent: events.NewBaseEvent(events.AssetConvertedType),
		User:      user,
		AssetIn:   asset,
		AssetOut:  e.accountingAsset,
		AmountIn:  amount,
		AmountOut: actualNative,
	})
	return nil
}

// EstimateMinOut suggests a minimum conversion output for amount of asset,
// in accounting units, based on the oracle value less the requested slippage
// tolerance. Tolerances above MaxSlippageBps are clamped. Read-only.
func (e *ConversionEngine) EstimateMinOut(asset shared.AssetID, amount uint64, slippageBps uint32) (uint64, error) {
	entry, ok := e.registry.Lookup(asset)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrAssetNotSupported, asset)
	}
	value, err := e.valuator.Value(entry, amount)
	if err != nil {
		return 0, err
	}
	if slippageBps > MaxSlippageBps {
		slippageBps = MaxSlippageBps
	}
	return mulDiv(value, bpsDenominator-uint64(slippageBps), bpsDenominator)
}

// AccountingAsset returns the asset all conversions settle into.
func (e *ConversionEngine) AccountingAsset() shared.AssetID {
	return e.accountingAsset
}

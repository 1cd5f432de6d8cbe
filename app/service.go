package app

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"custody-ledger/domain"
	"custody-ledger/events"
	"custody-ledger/shared"
	"custody-ledger/store"
)

// BankService is the application layer: it translates human-readable
// commands into base-unit ledger operations and exposes read models over the
// ledger, registry and audit journal.
type BankService struct {
	registry *domain.AssetRegistry
	ledger   *domain.Ledger
	engine   *domain.ConversionEngine
	journal  store.Journal
}

func NewBankService(registry *domain.AssetRegistry, ledger *domain.Ledger, engine *domain.ConversionEngine, journal store.Journal) *BankService {
	if registry == nil || ledger == nil || engine == nil || journal == nil {
		log.Fatal("FATAL: BankService dependencies must not be nil")
	}
	return &BankService{
		registry: registry,
		ledger:   ledger,
		engine:   engine,
		journal:  journal,
	}
}

// --- Administration ---

func (s *BankService) RegisterAsset(cmd RegisterAssetCommand) error {
	if err := s.registry.Register(cmd.Caller, cmd.Asset, cmd.PriceSource, cmd.Precision); err != nil {
		return fmt.Errorf("registering asset %s: %w", cmd.Asset, err)
	}
	return nil
}

func (s *BankService) DeregisterAsset(cmd DeregisterAssetCommand) error {
	if err := s.registry.Deregister(cmd.Caller, cmd.Asset); err != nil {
		return fmt.Errorf("deregistering asset %s: %w", cmd.Asset, err)
	}
	return nil
}

func (s *BankService) TransferOwnership(cmd TransferOwnershipCommand) error {
	if err := s.registry.TransferOwnership(cmd.Caller, cmd.NewOwner); err != nil {
		return fmt.Errorf("transferring ownership: %w", err)
	}
	return nil
}

// ListAssets returns the full catalog, active and disabled.
func (s *BankService) ListAssets() []domain.CatalogEntry {
	return s.registry.Assets()
}

// --- Transactions ---

func (s *BankService) Deposit(cmd DepositCommand) error {
	amount, err := s.toBaseUnits(cmd.Asset, cmd.Amount)
	if err != nil {
		return err
	}
	if err := s.ledger.Deposit(cmd.User, cmd.Asset, amount); err != nil {
		return fmt.Errorf("deposit of %s %s for %s: %w", cmd.Amount, cmd.Asset, cmd.User, err)
	}
	return nil
}

func (s *BankService) Withdraw(cmd WithdrawCommand) error {
	amount, err := s.toBaseUnits(cmd.Asset, cmd.Amount)
	if err != nil {
		return err
	}
	if err := s.ledger.Withdraw(cmd.User, cmd.Asset, amount); err != nil {
		return fmt.Errorf("withdrawal of %s %s for %s: %w", cmd.Amount, cmd.Asset, cmd.User, err)
	}
	return nil
}

// ConvertDeposit deposits an arbitrary asset through the conversion engine.
// When no explicit minimum is given, the oracle-based estimate (less the
// requested slippage) is used.
func (s *BankService) ConvertDeposit(cmd ConvertDepositCommand) error {
	amount, err := s.toBaseUnits(cmd.Asset, cmd.Amount)
	if err != nil {
		return err
	}

	var minOut uint64
	if cmd.MinOut.IsPositive() {
		minOut, err = shared.AmountFromDecimal(cmd.MinOut, shared.AccountingPrecision)
		if err != nil {
			return fmt.Errorf("invalid minimum output: %w", err)
		}
	} else if cmd.Asset != s.engine.AccountingAsset() {
		minOut, err = s.engine.EstimateMinOut(cmd.Asset, amount, cmd.SlippageBps)
		if err != nil {
			return fmt.Errorf("estimating minimum output: %w", err)
		}
		log.Printf("Derived minimum output %d for %s %s (slippage %d bps)", minOut, cmd.Amount, cmd.Asset, cmd.SlippageBps)
	}

	if err := s.engine.DepositConverted(cmd.User, cmd.Asset, amount, minOut); err != nil {
		return fmt.Errorf("converted deposit of %s %s for %s: %w", cmd.Amount, cmd.Asset, cmd.User, err)
	}
	return nil
}

// EstimateMinOut exposes the engine's oracle-based estimate in accounting
// whole units.
func (s *BankService) EstimateMinOut(asset shared.AssetID, amount decimal.Decimal, slippageBps uint32) (decimal.Decimal, error) {
	base, err := s.toBaseUnits(asset, amount)
	if err != nil {
		return decimal.Zero, err
	}
	min, err := s.engine.EstimateMinOut(asset, base, slippageBps)
	if err != nil {
		return decimal.Zero, err
	}
	return shared.AmountToDecimal(min, shared.AccountingPrecision), nil
}

// --- Queries ---

// BalanceView is a human-readable holding.
type BalanceView struct {
	Asset  shared.AssetID
	Amount decimal.Decimal
}

func (s *BankService) GetBalances(query GetBalanceQuery) []BalanceView {
	if query.Asset != nil {
		amount := s.ledger.Balance(query.User, *query.Asset)
		return []BalanceView{{
			Asset:  *query.Asset,
			Amount: shared.AmountToDecimal(amount, shared.AccountingPrecision),
		}}
	}

	holdings := s.ledger.Balances(query.User)
	views := make([]BalanceView, 0, len(holdings))
	for _, b := range holdings {
		views = append(views, BalanceView{
			Asset:  b.Asset,
			Amount: shared.AmountToDecimal(b.Amount, shared.AccountingPrecision),
		})
	}
	return views
}

// TotalsReport summarizes the bank-wide state for observability.
type TotalsReport struct {
	HeldValue       decimal.Decimal
	BankCap         decimal.Decimal
	WithdrawalLimit decimal.Decimal
	Deposits        uint64
	Withdrawals     uint64
	Conversions     uint64
	AssetTotals     []BalanceView
}

func (s *BankService) GetTotals() TotalsReport {
	report := TotalsReport{
		HeldValue:       shared.AmountToDecimal(s.ledger.HeldValue(), shared.AccountingPrecision),
		BankCap:         shared.AmountToDecimal(s.ledger.BankCap(), shared.AccountingPrecision),
		WithdrawalLimit: shared.AmountToDecimal(s.ledger.WithdrawalLimit(), shared.AccountingPrecision),
		Deposits:        s.ledger.DepositCount(),
		Withdrawals:     s.ledger.WithdrawalCount(),
		Conversions:     s.ledger.ConversionCount(),
	}
	for _, entry := range s.registry.Assets() {
		total := s.ledger.AssetTotal(entry.ID)
		if total == 0 {
			continue
		}
		report.AssetTotals = append(report.AssetTotals, BalanceView{
			Asset:  entry.ID,
			Amount: shared.AmountToDecimal(total, shared.AccountingPrecision),
		})
	}
	return report
}

// GetHistory pages through the audit journal, oldest first.
func (s *BankService) GetHistory(query GetHistoryQuery) []events.Event {
	history := s.journal.Events()

	start := query.Skip
	if start < 0 {
		start = 0
	}
	if start >= len(history) {
		return []events.Event{}
	}
	end := start + query.Limit
	if query.Limit <= 0 || end > len(history) {
		end = len(history)
	}
	return history[start:end]
}

// toBaseUnits converts a whole-token amount to base units at the asset's
// native precision. Unknown assets fail the same way the ledger would.
func (s *BankService) toBaseUnits(asset shared.AssetID, amount decimal.Decimal) (uint64, error) {
	entry, ok := s.registry.Lookup(asset)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrAssetNotSupported, asset)
	}
	base, err := shared.AmountFromDecimal(amount, entry.Precision)
	if err != nil {
		return 0, fmt.Errorf("invalid amount for %s: %w", asset, err)
	}
	return base, nil
}

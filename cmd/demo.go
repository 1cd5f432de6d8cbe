package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"custody-ledger/app"
	"custody-ledger/domain"
	"custody-ledger/market"
	"custody-ledger/shared"
	"custody-ledger/store"
)

// demoCmd walks through the core flows against a small isolated ledger so
// the limits actually bite: a 1000-unit bank cap, a priced token, a refused
// over-cap deposit, a withdrawal and a converted deposit.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted end-to-end demonstration",
	Run: func(cmd *cobra.Command, args []string) {
		runDemo()
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo() {
	const (
		owner      = shared.Principal("treasury-ops")
		accounting = shared.AssetID("USD")
		token      = shared.AssetID("TOK")
		alice      = shared.UserID("alice")
	)

	// Small isolated stack: cap 1000, withdrawal limit 500, in accounting units.
	bankCap := mustAccounting("1000")
	limit := mustAccounting("500")

	demoJournal := store.NewInMemoryJournal()
	feed := market.NewStaticPriceFeed()
	demoCustodian := market.NewInMemoryCustodian()
	demoExchange := market.NewRateExchange(demoCustodian)

	registry := domain.NewAssetRegistry(owner, demoJournal)
	gateway := domain.NewOracleGateway(feed, 0)
	valuator := domain.NewValuator(gateway)
	ledger := domain.NewLedger(registry, valuator, demoCustodian, demoJournal, bankCap, limit)
	engine := domain.NewConversionEngine(ledger, registry, valuator, demoCustodian, demoExchange, demoJournal, accounting)
	service := app.NewBankService(registry, ledger, engine, demoJournal)

	fmt.Println("=== Custody ledger demonstration ===")
	fmt.Println()

	step("Register USD (accounting currency) and TOK, both owner-gated")
	must(service.RegisterAsset(app.RegisterAssetCommand{Caller: owner, Asset: accounting, PriceSource: "usd-ref", Precision: shared.AccountingPrecision}))
	must(service.RegisterAsset(app.RegisterAssetCommand{Caller: owner, Asset: token, PriceSource: "tok-ref", Precision: 6}))

	step("Publish prices: USD at par, TOK at 2 accounting units per token")
	feed.SetQuote("usd-ref", domain.PriceQuote{Price: 100_000_000, UpdatedAt: time.Now(), Precision: shared.AccountingPrecision})
	feed.SetQuote("tok-ref", domain.PriceQuote{Price: 200_000_000, UpdatedAt: time.Now(), Precision: shared.AccountingPrecision})

	step("Mint 1000 TOK into alice's wallet and deposit 400 (value 800, under the 1000 cap)")
	demoCustodian.Mint(alice, token, 1_000_000_000) // 1000 TOK at precision 6
	must(service.Deposit(app.DepositCommand{User: alice, Asset: token, Amount: decimal.NewFromInt(400)}))
	printBalances(service, alice)

	step("Attempt to deposit another 150 TOK (value 300, would breach the cap)")
	err := service.Deposit(app.DepositCommand{User: alice, Asset: token, Amount: decimal.NewFromInt(150)})
	fmt.Printf("  Refused as expected: %v\n", err)

	step("Withdraw 100 TOK (value 200, within the per-withdrawal limit)")
	must(service.Withdraw(app.WithdrawCommand{User: alice, Asset: token, Amount: decimal.NewFromInt(100)}))
	printBalances(service, alice)

	step("Attempt to withdraw 300 TOK (value 600, over the 500 limit)")
	err = service.Withdraw(app.WithdrawCommand{User: alice, Asset: token, Amount: decimal.NewFromInt(300)})
	fmt.Printf("  Refused as expected: %v\n", err)

	step("Converted deposit: swap 50 TOK into USD through the exchange")
	demoExchange.SetPrecision(token, 6)
	demoExchange.SetPrecision(accounting, shared.AccountingPrecision)
	demoExchange.SetRate(token, accounting, decimal.NewFromInt(2))
	must(service.ConvertDeposit(app.ConvertDepositCommand{User: alice, Asset: token, Amount: decimal.NewFromInt(50), SlippageBps: 50}))
	printBalances(service, alice)

	step("Final totals")
	report := service.GetTotals()
	fmt.Printf("  Held value %s of cap %s; %d deposits, %d withdrawals, %d conversions\n",
		report.HeldValue.String(), report.BankCap.String(), report.Deposits, report.Withdrawals, report.Conversions)
	fmt.Printf("  Journal recorded %d events\n", demoJournal.Len())

	fmt.Println()
	fmt.Println("=== Demonstration complete ===")
}

func step(description string) {
	fmt.Printf("\n--- %s ---\n", description)
}

func must(err error) {
	if err != nil {
		exitWithError(err)
	}
}

func mustAccounting(raw string) uint64 {
	amount, err := shared.AmountFromDecimal(decimal.RequireFromString(raw), shared.AccountingPrecision)
	if err != nil {
		panic(err)
	}
	return amount
}

func printBalances(service *app.BankService, user shared.UserID) {
	views := service.GetBalances(app.GetBalanceQuery{User: user})
	for _, v := range views {
		fmt.Printf("  balance: %-6s %s\n", v.Asset, v.Amount.String())
	}
}

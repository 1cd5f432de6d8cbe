package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"custody-ledger/app"
	"custody-ledger/domain"
	"custody-ledger/market"
	"custody-ledger/shared"
	"custody-ledger/store"
)

var (
	cfgFile string

	// Shared runtime, built once per process from the loaded configuration.
	bankService *app.BankService
	journal     *store.InMemoryJournal
	priceFeed   *market.StaticPriceFeed
	custodian   *market.InMemoryCustodian
	exchange    *market.RateExchange
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "custody-cli",
	Short: "A CLI for the custodial multi-asset ledger",
	Long: `custody-cli manages a custodial multi-asset ledger: an owner registers
assets with their price-source bindings, users deposit and withdraw, and
arbitrary assets can be deposited through the conversion engine, which swaps
them into the accounting currency with slippage protection.

State is held in memory for the lifetime of the process; use the repl or
demo subcommands for multi-step sessions.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initRuntime()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./custody-ledger.yaml)")

	rootCmd.AddCommand(replCmd)
}

// initConfig loads the viper configuration. All limits are construction-time
// values: once the runtime is built they can never change.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("custody-ledger")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LEDGER")
	viper.AutomaticEnv()

	viper.SetDefault("owner", "treasury-ops")
	viper.SetDefault("accounting_asset", "USD")
	viper.SetDefault("bank_cap", "1000000")       // accounting whole units
	viper.SetDefault("withdrawal_limit", "10000") // accounting whole units, per withdrawal
	viper.SetDefault("price_staleness", "1h")

	if err := viper.ReadInConfig(); err == nil {
		log.Printf("Using config file: %s", viper.ConfigFileUsed())
	}
}

func initRuntime() {
	if bankService != nil {
		return
	}

	bankCap, err := configAmount("bank_cap")
	if err != nil {
		exitWithError(err)
		return
	}
	withdrawalLimit, err := configAmount("withdrawal_limit")
	if err != nil {
		exitWithError(err)
		return
	}

	owner := shared.Principal(viper.GetString("owner"))
	accountingAsset := shared.AssetID(viper.GetString("accounting_asset"))
	staleness := viper.GetDuration("price_staleness")

	journal = store.NewInMemoryJournal()
	priceFeed = market.NewStaticPriceFeed()
	custodian = market.NewInMemoryCustodian()
	exchange = market.NewRateExchange(custodian)

	registry := domain.NewAssetRegistry(owner, journal)
	gateway := domain.NewOracleGateway(priceFeed, staleness)
	valuator := domain.NewValuator(gateway)
	ledger := domain.NewLedger(registry, valuator, custodian, journal, bankCap, withdrawalLimit)
	engine := domain.NewConversionEngine(ledger, registry, valuator, custodian, exchange, journal, accountingAsset)

	bankService = app.NewBankService(registry, ledger, engine, journal)
}

func configAmount(key string) (uint64, error) {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	amount, err := shared.AmountFromDecimal(d, shared.AccountingPrecision)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return amount, nil
}

// Helper function to print errors. In REPL mode the loop continues; in
// one-shot mode the process exits non-zero.
func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if !replActive {
		os.Exit(1)
	}
}

var replActive bool

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive REPL session",
	Long: `Starts an interactive Read-Eval-Print Loop against a single in-memory
ledger instance, so registrations, deposits and queries compose across
commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Starting custody-cli REPL. Type 'exit' or 'quit' to exit.")

		replActive = true
		defer func() { replActive = false }()

		reader := bufio.NewReader(os.Stdin)
		for {
			fmt.Print("> ")
			input, err := reader.ReadString('\n')
			if err != nil {
				break
			}
			input = strings.TrimSpace(input)

			if input == "exit" || input == "quit" {
				break
			}
			if input == "" {
				continue
			}

			rootCmd.SetArgs(strings.Fields(input))
			if err := rootCmd.Execute(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}

		fmt.Println("Exiting REPL.")
	},
}

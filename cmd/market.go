package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"custody-ledger/domain"
	"custody-ledger/shared"
)

var (
	marketSource  string
	marketPrice   string
	marketUser    string
	marketAsset   string
	marketAmount  string
	marketAssetIn string
	marketAssetTo string
	marketRate    string
)

// marketCmd represents the market command group. It seeds the simulated
// environment (oracle, custodian wallets, exchange rates) so repl sessions
// have something to trade against.
var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Seed the simulated market environment",
	Long: `Configures the in-memory oracle, custodian and exchange backing this
process: publish prices, mint wallet funds and set swap rates.`,
}

var setPriceCmd = &cobra.Command{
	Use:   "set-price",
	Short: "Publish an oracle price",
	Long:  `Publishes a fresh quote for a price source, in accounting currency per whole token.`,
	Run: func(cmd *cobra.Command, args []string) {
		price, err := decimal.NewFromString(marketPrice)
		if err != nil {
			exitWithError(fmt.Errorf("invalid price %q: %w", marketPrice, err))
			return
		}
		scaled := price.Shift(int32(shared.AccountingPrecision))
		if !scaled.IsInteger() || !scaled.BigInt().IsInt64() {
			exitWithError(fmt.Errorf("price %s cannot be represented at precision %d", price, shared.AccountingPrecision))
			return
		}
		priceFeed.SetQuote(shared.SourceID(marketSource), domain.PriceQuote{
			Price:     scaled.BigInt().Int64(),
			UpdatedAt: time.Now(),
			Precision: shared.AccountingPrecision,
		})
		fmt.Printf("Price source '%s' now quotes %s.\n", marketSource, price.String())
	},
}

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint tokens into a user wallet",
	Long:  `Seeds a user's external wallet so subsequent deposits have funds to pull. The asset must already be registered.`,
	Run: func(cmd *cobra.Command, args []string) {
		asset := shared.AssetID(marketAsset)
		precision, ok := catalogPrecision(asset)
		if !ok {
			exitWithError(fmt.Errorf("%w: %q (register it before minting)", domain.ErrAssetNotSupported, asset))
			return
		}
		amount, err := decimal.NewFromString(marketAmount)
		if err != nil {
			exitWithError(fmt.Errorf("invalid amount %q: %w", marketAmount, err))
			return
		}
		base, err := shared.AmountFromDecimal(amount, precision)
		if err != nil {
			exitWithError(fmt.Errorf("invalid amount for %s: %w", asset, err))
			return
		}
		custodian.Mint(shared.UserID(marketUser), asset, base)
		fmt.Printf("Minted %s %s into wallet of '%s'.\n", amount.String(), asset, marketUser)
	},
}

var setRateCmd = &cobra.Command{
	Use:   "set-rate",
	Short: "Set an exchange swap rate",
	Long:  `Declares how many whole tokens of the output asset one whole token of the input asset buys on the simulated exchange.`,
	Run: func(cmd *cobra.Command, args []string) {
		assetIn := shared.AssetID(marketAssetIn)
		assetOut := shared.AssetID(marketAssetTo)

		precIn, ok := catalogPrecision(assetIn)
		if !ok {
			exitWithError(fmt.Errorf("%w: %q", domain.ErrAssetNotSupported, assetIn))
			return
		}
		precOut, ok := catalogPrecision(assetOut)
		if !ok {
			exitWithError(fmt.Errorf("%w: %q", domain.ErrAssetNotSupported, assetOut))
			return
		}

		rate, err := decimal.NewFromString(marketRate)
		if err != nil {
			exitWithError(fmt.Errorf("invalid rate %q: %w", marketRate, err))
			return
		}
		if !rate.IsPositive() {
			exitWithError(fmt.Errorf("rate must be positive: %s", rate))
			return
		}

		exchange.SetPrecision(assetIn, precIn)
		exchange.SetPrecision(assetOut, precOut)
		exchange.SetRate(assetIn, assetOut, rate)
		fmt.Printf("Exchange rate %s/%s set to %s.\n", assetIn, assetOut, rate.String())
	},
}

// catalogPrecision resolves an asset's native precision from the registry.
func catalogPrecision(asset shared.AssetID) (uint32, bool) {
	for _, entry := range bankService.ListAssets() {
		if entry.ID == asset {
			return entry.Precision, true
		}
	}
	return 0, false
}

func init() {
	rootCmd.AddCommand(marketCmd)

	marketCmd.AddCommand(setPriceCmd)
	setPriceCmd.Flags().StringVar(&marketSource, "source", "", "price source handle (required)")
	setPriceCmd.Flags().StringVar(&marketPrice, "price", "", "price in accounting currency per whole token (required)")
	_ = setPriceCmd.MarkFlagRequired("source")
	_ = setPriceCmd.MarkFlagRequired("price")

	marketCmd.AddCommand(mintCmd)
	mintCmd.Flags().StringVar(&marketUser, "user", "", "user ID (required)")
	mintCmd.Flags().StringVar(&marketAsset, "asset", "", "asset handle (required)")
	mintCmd.Flags().StringVar(&marketAmount, "amount", "", "amount in whole tokens (required)")
	_ = mintCmd.MarkFlagRequired("user")
	_ = mintCmd.MarkFlagRequired("asset")
	_ = mintCmd.MarkFlagRequired("amount")

	marketCmd.AddCommand(setRateCmd)
	setRateCmd.Flags().StringVar(&marketAssetIn, "asset-in", "", "input asset handle (required)")
	setRateCmd.Flags().StringVar(&marketAssetTo, "asset-out", "", "output asset handle (required)")
	setRateCmd.Flags().StringVar(&marketRate, "rate", "", "whole tokens of output per whole token of input (required)")
	_ = setRateCmd.MarkFlagRequired("asset-in")
	_ = setRateCmd.MarkFlagRequired("asset-out")
	_ = setRateCmd.MarkFlagRequired("rate")
}

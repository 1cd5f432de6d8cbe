package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"custody-ledger/app"
	"custody-ledger/shared"
)

// Variables to hold flag values for transaction commands
var (
	txUser        string
	txAsset       string
	txAmountStr   string
	txMinOutStr   string
	txSlippageBps uint32
)

// transactionCmd represents the transaction command group
var transactionCmd = &cobra.Command{
	Use:   "transaction",
	Short: "Perform ledger transactions",
	Long:  `Provides commands for depositing, withdrawing and converted deposits of arbitrary assets.`,
}

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Deposit an asset",
	Long:  `Credits the user with the deposited amount after checking the bank-wide value cap against the oracle price.`,
	Run: func(cmd *cobra.Command, args []string) {
		amount := parseAmount(txAmountStr)
		err := bankService.Deposit(app.DepositCommand{
			User:   shared.UserID(txUser),
			Asset:  shared.AssetID(txAsset),
			Amount: amount,
		})
		if err != nil {
			exitWithError(err)
			return
		}
		fmt.Printf("Successfully deposited %s %s for user '%s'.\n", amount.String(), txAsset, txUser)
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw an asset",
	Long:  `Debits the user's balance and pushes the raw asset out, subject to the per-withdrawal value limit.`,
	Run: func(cmd *cobra.Command, args []string) {
		amount := parseAmount(txAmountStr)
		err := bankService.Withdraw(app.WithdrawCommand{
			User:   shared.UserID(txUser),
			Asset:  shared.AssetID(txAsset),
			Amount: amount,
		})
		if err != nil {
			exitWithError(err)
			return
		}
		fmt.Printf("Successfully withdrew %s %s for user '%s'.\n", amount.String(), txAsset, txUser)
	},
}

var convertDepositCmd = &cobra.Command{
	Use:   "convert-deposit",
	Short: "Deposit an arbitrary asset via conversion",
	Long: `Swaps the deposited asset into the accounting currency through the
exchange, verifies the realized output against the minimum bound, and credits
the proceeds. Without --min-out, the bound is derived from the oracle price
less --slippage-bps (capped at 200).`,
	Run: func(cmd *cobra.Command, args []string) {
		amount := parseAmount(txAmountStr)
		minOut := decimal.Zero
		if txMinOutStr != "" {
			minOut = parseAmount(txMinOutStr)
		}
		err := bankService.ConvertDeposit(app.ConvertDepositCommand{
			User:        shared.UserID(txUser),
			Asset:       shared.AssetID(txAsset),
			Amount:      amount,
			MinOut:      minOut,
			SlippageBps: txSlippageBps,
		})
		if err != nil {
			exitWithError(err)
			return
		}
		fmt.Printf("Successfully converted and deposited %s %s for user '%s'.\n", amount.String(), txAsset, txUser)
	},
}

var estimateCmd = &cobra.Command{
	Use:   "estimate-min-out",
	Short: "Estimate a conversion minimum output",
	Long:  `Read-only oracle-based estimate of conversion proceeds less the slippage tolerance, in accounting currency.`,
	Run: func(cmd *cobra.Command, args []string) {
		amount := parseAmount(txAmountStr)
		min, err := bankService.EstimateMinOut(shared.AssetID(txAsset), amount, txSlippageBps)
		if err != nil {
			exitWithError(err)
			return
		}
		fmt.Printf("Suggested minimum output for %s %s: %s (slippage %d bps)\n", amount.String(), txAsset, min.String(), txSlippageBps)
	},
}

func parseAmount(raw string) decimal.Decimal {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		exitWithError(fmt.Errorf("invalid amount format: %q: %w", raw, err))
		return decimal.Zero
	}
	if amount.IsNegative() || amount.IsZero() {
		exitWithError(fmt.Errorf("amount must be positive: %s", amount))
		return decimal.Zero
	}
	return amount
}

func init() {
	rootCmd.AddCommand(transactionCmd)

	transactionCmd.AddCommand(depositCmd)
	depositCmd.Flags().StringVar(&txUser, "user", "", "user ID (required)")
	depositCmd.Flags().StringVar(&txAsset, "asset", "", "asset handle (required)")
	depositCmd.Flags().StringVar(&txAmountStr, "amount", "", "amount in whole tokens (required)")
	_ = depositCmd.MarkFlagRequired("user")
	_ = depositCmd.MarkFlagRequired("asset")
	_ = depositCmd.MarkFlagRequired("amount")

	transactionCmd.AddCommand(withdrawCmd)
	withdrawCmd.Flags().StringVar(&txUser, "user", "", "user ID (required)")
	withdrawCmd.Flags().StringVar(&txAsset, "asset", "", "asset handle (required)")
	withdrawCmd.Flags().StringVar(&txAmountStr, "amount", "", "amount in whole tokens (required)")
	_ = withdrawCmd.MarkFlagRequired("user")
	_ = withdrawCmd.MarkFlagRequired("asset")
	_ = withdrawCmd.MarkFlagRequired("amount")

	transactionCmd.AddCommand(convertDepositCmd)
	convertDepositCmd.Flags().StringVar(&txUser, "user", "", "user ID (required)")
	convertDepositCmd.Flags().StringVar(&txAsset, "asset", "", "asset handle (required)")
	convertDepositCmd.Flags().StringVar(&txAmountStr, "amount", "", "amount in whole tokens (required)")
	convertDepositCmd.Flags().StringVar(&txMinOutStr, "min-out", "", "minimum conversion output in accounting currency (optional)")
	convertDepositCmd.Flags().Uint32Var(&txSlippageBps, "slippage-bps", 50, "slippage tolerance in basis points when --min-out is omitted")
	_ = convertDepositCmd.MarkFlagRequired("user")
	_ = convertDepositCmd.MarkFlagRequired("asset")
	_ = convertDepositCmd.MarkFlagRequired("amount")

	transactionCmd.AddCommand(estimateCmd)
	estimateCmd.Flags().StringVar(&txAsset, "asset", "", "asset handle (required)")
	estimateCmd.Flags().StringVar(&txAmountStr, "amount", "", "amount in whole tokens (required)")
	estimateCmd.Flags().Uint32Var(&txSlippageBps, "slippage-bps", 50, "slippage tolerance in basis points")
	_ = estimateCmd.MarkFlagRequired("asset")
	_ = estimateCmd.MarkFlagRequired("amount")
}

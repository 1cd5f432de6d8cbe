package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"custody-ledger/app"
	"custody-ledger/events"
	"custody-ledger/shared"
)

// Variables for query flags
var (
	queryUser  string
	queryAsset string
	querySkip  int
	queryLimit int
)

// queryCmd represents the query command group
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query ledger state",
	Long:  `Provides commands to query user balances, bank-wide totals and the audit journal.`,
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Get a user's balance(s)",
	Long: `Retrieves the user's holdings in accounting-precision units.
If --asset is omitted, all non-zero holdings are shown. Never-deposited
combinations read as zero.`,
	Run: func(cmd *cobra.Command, args []string) {
		var target *shared.AssetID
		if queryAsset != "" {
			a := shared.AssetID(queryAsset)
			target = &a
		}

		views := bankService.GetBalances(app.GetBalanceQuery{
			User:  shared.UserID(queryUser),
			Asset: target,
		})

		if len(views) == 0 {
			fmt.Printf("User '%s' has no balances.\n", queryUser)
			return
		}
		fmt.Printf("User '%s' balances:\n", queryUser)
		for _, v := range views {
			fmt.Printf("  %-10s %s\n", v.Asset, v.Amount.String())
		}
	},
}

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show bank-wide totals and limits",
	Run: func(cmd *cobra.Command, args []string) {
		report := bankService.GetTotals()
		fmt.Printf("Held value:        %s / cap %s\n", report.HeldValue.String(), report.BankCap.String())
		fmt.Printf("Withdrawal limit:  %s per transaction\n", report.WithdrawalLimit.String())
		fmt.Printf("Operations:        %d deposits, %d withdrawals, %d conversions\n",
			report.Deposits, report.Withdrawals, report.Conversions)
		if len(report.AssetTotals) > 0 {
			fmt.Println("Per-asset totals:")
			for _, t := range report.AssetTotals {
				fmt.Printf("  %-10s %s\n", t.Asset, t.Amount.String())
			}
		}
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the audit journal",
	Long:  `Retrieves the sequence of observability events recorded by the ledger, with optional pagination.`,
	Run: func(cmd *cobra.Command, args []string) {
		if querySkip < 0 {
			exitWithError(fmt.Errorf("skip value cannot be negative"))
			return
		}
		if queryLimit < 0 {
			exitWithError(fmt.Errorf("limit value cannot be negative"))
			return
		}

		history := bankService.GetHistory(app.GetHistoryQuery{
			Skip:  querySkip,
			Limit: queryLimit,
		})
		if len(history) == 0 {
			fmt.Println("No events recorded.")
			return
		}

		fmt.Println("--------------------------------------------------")
		for i, event := range history {
			fmt.Printf("Event %d:\n", querySkip+i+1)
			printEventDetails(event)
			fmt.Println("--------------------------------------------------")
		}
	},
}

// printEventDetails formats and prints the details of a single event.
func printEventDetails(event events.Event) {
	base := event.GetBase()
	fmt.Printf("  Type:      %s\n", base.Type)
	fmt.Printf("  EventID:   %s\n", base.EventID.String())
	fmt.Printf("  Timestamp: %s\n", base.Timestamp.Format(time.RFC3339))

	switch e := event.(type) {
	case events.DepositedEvent:
		fmt.Printf("  Details:   user=%s asset=%s raw=%d value=%d\n", e.User, e.Asset, e.RawAmount, e.AccountingValue)
	case events.WithdrawnEvent:
		fmt.Printf("  Details:   user=%s asset=%s raw=%d value=%d\n", e.User, e.Asset, e.RawAmount, e.AccountingValue)
	case events.AssetConvertedEvent:
		fmt.Printf("  Details:   user=%s %d %s -> %d %s\n", e.User, e.AmountIn, e.AssetIn, e.AmountOut, e.AssetOut)
	case events.AssetRegisteredEvent:
		fmt.Printf("  Details:   asset=%s source=%s precision=%d\n", e.Asset, e.PriceSource, e.Precision)
	case events.AssetDeregisteredEvent:
		fmt.Printf("  Details:   asset=%s\n", e.Asset)
	case events.OwnershipTransferredEvent:
		fmt.Printf("  Details:   %s -> %s\n", e.PreviousOwner, e.NewOwner)
	default:
		jsonData, err := json.MarshalIndent(event, "    ", "  ")
		if err != nil {
			fmt.Printf("  Details:   (error marshalling event: %v)\n", err)
		} else {
			fmt.Printf("  Details:\n    %s\n", string(jsonData))
		}
	}
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVar(&queryUser, "user", "", "user ID to query (required)")
	balanceCmd.Flags().StringVar(&queryAsset, "asset", "", "optional asset handle for a specific holding")
	_ = balanceCmd.MarkFlagRequired("user")

	queryCmd.AddCommand(totalsCmd)

	queryCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&querySkip, "skip", 0, "number of events to skip (for pagination)")
	historyCmd.Flags().IntVar(&queryLimit, "limit", 0, "maximum number of events to return (0 for no limit)")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"custody-ledger/app"
	"custody-ledger/shared"
)

var (
	assetCaller    string
	assetID        string
	assetSource    string
	assetPrecision uint32
	newOwner       string
)

// assetCmd represents the asset command group
var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Administer the asset catalog",
	Long:  `Owner-gated commands to register, deregister and list accepted assets, and to hand off ownership.`,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register an asset for deposits",
	Long: `Registers an asset as active, binding it to a price source and declaring
its native precision (count of fractional digits). Only the owner principal
may register assets.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := bankService.RegisterAsset(app.RegisterAssetCommand{
			Caller:      shared.Principal(assetCaller),
			Asset:       shared.AssetID(assetID),
			PriceSource: shared.SourceID(assetSource),
			Precision:   assetPrecision,
		})
		if err != nil {
			exitWithError(err)
			return
		}
		fmt.Printf("Asset '%s' registered (precision %d, price source '%s').\n", assetID, assetPrecision, assetSource)
	},
}

var deregisterCmd = &cobra.Command{
	Use:   "deregister",
	Short: "Disable deposits of an asset",
	Long: `Marks an asset inactive. Existing balances remain queryable and
withdrawable; only new deposits are refused.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := bankService.DeregisterAsset(app.DeregisterAssetCommand{
			Caller: shared.Principal(assetCaller),
			Asset:  shared.AssetID(assetID),
		})
		if err != nil {
			exitWithError(err)
			return
		}
		fmt.Printf("Asset '%s' deregistered.\n", assetID)
	},
}

var listAssetsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the asset catalog",
	Run: func(cmd *cobra.Command, args []string) {
		entries := bankService.ListAssets()
		if len(entries) == 0 {
			fmt.Println("No assets registered.")
			return
		}
		for _, entry := range entries {
			status := "active"
			if !entry.Active {
				status = "disabled"
			}
			fmt.Printf("  %-10s precision=%-3d source=%-12s %s\n", entry.ID, entry.Precision, entry.PriceSource, status)
		}
	},
}

var transferOwnershipCmd = &cobra.Command{
	Use:   "transfer-ownership",
	Short: "Hand the owner role to a new principal",
	Run: func(cmd *cobra.Command, args []string) {
		err := bankService.TransferOwnership(app.TransferOwnershipCommand{
			Caller:   shared.Principal(assetCaller),
			NewOwner: shared.Principal(newOwner),
		})
		if err != nil {
			exitWithError(err)
			return
		}
		fmt.Printf("Ownership transferred to '%s'.\n", newOwner)
	},
}

func init() {
	rootCmd.AddCommand(assetCmd)

	assetCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&assetCaller, "caller", "", "calling principal (required)")
	registerCmd.Flags().StringVar(&assetID, "asset", "", "asset handle (required)")
	registerCmd.Flags().StringVar(&assetSource, "source", "", "price source handle (required)")
	registerCmd.Flags().Uint32Var(&assetPrecision, "precision", 0, "native precision in fractional digits")
	_ = registerCmd.MarkFlagRequired("caller")
	_ = registerCmd.MarkFlagRequired("asset")
	_ = registerCmd.MarkFlagRequired("source")

	assetCmd.AddCommand(deregisterCmd)
	deregisterCmd.Flags().StringVar(&assetCaller, "caller", "", "calling principal (required)")
	deregisterCmd.Flags().StringVar(&assetID, "asset", "", "asset handle (required)")
	_ = deregisterCmd.MarkFlagRequired("caller")
	_ = deregisterCmd.MarkFlagRequired("asset")

	assetCmd.AddCommand(listAssetsCmd)

	assetCmd.AddCommand(transferOwnershipCmd)
	transferOwnershipCmd.Flags().StringVar(&assetCaller, "caller", "", "calling principal (required)")
	transferOwnershipCmd.Flags().StringVar(&newOwner, "new-owner", "", "new owner principal (required)")
	_ = transferOwnershipCmd.MarkFlagRequired("caller")
	_ = transferOwnershipCmd.MarkFlagRequired("new-owner")
}

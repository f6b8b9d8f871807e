package cmd

import (
	"coursemarket/core"

	"github.com/spf13/cobra"
)

var transferOracleCmd = &cobra.Command{
	Use:   "transfer-oracle",
	Short: "reassign the oracle role",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		target, _ := cmd.Flags().GetString("to")
		caller, _ := cmd.Flags().GetString("from")
		if caller == "" {
			caller = cfg.Genesis.Owner
		}

		if err := provideRoleService(database).TransferOracle(ctx, caller, target); err != nil {
			cmd.PrintErrln("transfer oracle error:", err)
			return
		}

		cmd.Println("oracle is now", target)
	},
}

var transferOwnerCmd = &cobra.Command{
	Use:   "transfer-owner",
	Short: "reassign the owner role",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		target, _ := cmd.Flags().GetString("to")
		caller, _ := cmd.Flags().GetString("from")
		if caller == "" {
			caller = cfg.Genesis.Owner
		}

		if err := provideRoleService(database).TransferOwner(ctx, caller, target); err != nil {
			cmd.PrintErrln("transfer owner error:", err)
			return
		}

		cmd.Println("owner is now", target)
	},
}

var setMinterCmd = &cobra.Command{
	Use:   "set-minter",
	Short: "toggle an address in the certificate minter set",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		address, _ := cmd.Flags().GetString("address")
		if address == "" {
			address = cfg.Market.Address
		}
		enabled, _ := cmd.Flags().GetBool("enabled")
		caller, _ := cmd.Flags().GetString("from")
		if caller == "" {
			caller = cfg.Genesis.Owner
		}

		owner, err := provideRoleService(database).Owner(ctx)
		if err != nil {
			cmd.PrintErrln("set minter error:", err)
			return
		}
		if caller != owner {
			cmd.PrintErrln("set minter error:", core.ErrUnauthorized)
			return
		}

		if err := provideCertificateRegistry(database).SetMinter(ctx, address, enabled); err != nil {
			cmd.PrintErrln("set minter error:", err)
			return
		}

		cmd.Println("minter", address, "enabled:", enabled)
	},
}

func init() {
	rootCmd.AddCommand(transferOracleCmd)
	rootCmd.AddCommand(transferOwnerCmd)
	rootCmd.AddCommand(setMinterCmd)

	transferOracleCmd.Flags().String("to", "", "new oracle address")
	transferOracleCmd.Flags().String("from", "", "caller address, default genesis owner")
	transferOwnerCmd.Flags().String("to", "", "new owner address")
	transferOwnerCmd.Flags().String("from", "", "caller address, default genesis owner")
	setMinterCmd.Flags().String("address", "", "minter address, default the market address")
	setMinterCmd.Flags().Bool("enabled", true, "enable or disable the minter")
	setMinterCmd.Flags().String("from", "", "caller address, default genesis owner")
}

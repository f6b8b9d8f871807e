package cmd

import (
	"coursemarket/pkg/number"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "token ledger setup operations",
}

var tokenMintCmd = &cobra.Command{
	Use:   "mint",
	Short: "mint tokens to an address",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		to, _ := cmd.Flags().GetString("to")
		amount, _ := cmd.Flags().GetString("amount")
		if to == "" || !number.Decimal(amount).IsPositive() {
			panic("to and a positive amount required")
		}

		if err := provideTokenLedger(database).Mint(ctx, to, number.Decimal(amount)); err != nil {
			cmd.PrintErrln("mint error:", err)
			return
		}

		cmd.Println("minted", amount, "to", to)
	},
}

var tokenTransferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "transfer tokens between addresses",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		amount, _ := cmd.Flags().GetString("amount")
		if from == "" || to == "" || !number.Decimal(amount).IsPositive() {
			panic("from, to and a positive amount required")
		}

		if err := provideTokenLedger(database).Transfer(ctx, from, to, number.Decimal(amount)); err != nil {
			cmd.PrintErrln("transfer error:", err)
			return
		}

		cmd.Println("transferred", amount, "from", from, "to", to)
	},
}

var tokenApproveCmd = &cobra.Command{
	Use:   "approve",
	Short: "approve a spender allowance",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		owner, _ := cmd.Flags().GetString("owner")
		spender, _ := cmd.Flags().GetString("spender")
		if spender == "" {
			spender = cfg.Market.Address
		}
		amount, _ := cmd.Flags().GetString("amount")
		if owner == "" {
			panic("owner required")
		}

		if err := provideTokenLedger(database).Approve(ctx, owner, spender, number.Decimal(amount)); err != nil {
			cmd.PrintErrln("approve error:", err)
			return
		}

		cmd.Println(owner, "approved", amount, "for", spender)
	},
}

var tokenBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "query an address balance",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		user, _ := cmd.Flags().GetString("of")
		if user == "" {
			panic("of required")
		}

		balance, err := provideTokenLedger(database).BalanceOf(ctx, user)
		if err != nil {
			cmd.PrintErrln("balance error:", err)
			return
		}

		cmd.Println(balance.String())
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenMintCmd)
	tokenCmd.AddCommand(tokenTransferCmd)
	tokenCmd.AddCommand(tokenApproveCmd)
	tokenCmd.AddCommand(tokenBalanceCmd)

	tokenMintCmd.Flags().String("to", "", "recipient address")
	tokenMintCmd.Flags().String("amount", "0", "amount in base units")
	tokenTransferCmd.Flags().String("from", "", "payer address")
	tokenTransferCmd.Flags().String("to", "", "recipient address")
	tokenTransferCmd.Flags().String("amount", "0", "amount in base units")
	tokenApproveCmd.Flags().String("owner", "", "allowance owner")
	tokenApproveCmd.Flags().String("spender", "", "spender address, default the market address")
	tokenApproveCmd.Flags().String("amount", "0", "allowance in base units")
	tokenBalanceCmd.Flags().String("of", "", "address to query")
}

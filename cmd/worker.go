package cmd

import (
	"sync"

	"coursemarket/worker"
	"coursemarket/worker/cashier"
	"coursemarket/worker/syncer"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run the automated oracle workers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		signalStore := provideSignalStore(database)
		propertyStore := providePropertyStore(database)
		marketService := provideMarketService(database)
		roleService := provideRoleService(database)
		oracleService := provideOracleService()

		cashierCfg := cashier.Config{
			Batch:    cfg.Cashier.Batch,
			Capacity: cfg.Cashier.Capacity,
		}
		if cashierCfg.Batch <= 0 {
			cashierCfg.Batch = 100
		}
		if cashierCfg.Capacity <= 0 {
			cashierCfg.Capacity = 1
		}

		workers := []worker.Worker{
			syncer.New(signalStore, oracleService, propertyStore),
			cashier.New(signalStore, marketService, roleService, cashierCfg),
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				worker.Run(ctx)
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

package cmd

import (
	"coursemarket/core"

	"github.com/fox-one/pkg/uuid"
	"github.com/spf13/cobra"
)

var purchaseCmd = &cobra.Command{
	Use:   "purchase",
	Short: "purchase a course for a learner",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		learner, _ := cmd.Flags().GetString("learner")
		courseID, _ := cmd.Flags().GetString("course")
		if learner == "" || courseID == "" {
			panic("learner and course required")
		}

		if err := provideMarketService(database).PurchaseCourse(ctx, learner, courseID); err != nil {
			cmd.PrintErrln("purchase error:", err)
			return
		}

		cmd.Println(learner, "purchased", courseID)
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "mark a course completed and mint the certificate",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		learner, _ := cmd.Flags().GetString("learner")
		courseID, _ := cmd.Flags().GetString("course")
		if learner == "" || courseID == "" {
			panic("learner and course required")
		}
		caller, _ := cmd.Flags().GetString("from")
		if caller == "" {
			caller = cfg.Genesis.Oracle
		}

		tokenID, err := provideMarketService(database).CompleteCourse(ctx, caller, learner, courseID)
		if err != nil {
			cmd.PrintErrln("complete error:", err)
			return
		}

		cmd.Println(learner, "completed", courseID, "certificate", tokenID)
	},
}

var hasCourseCmd = &cobra.Command{
	Use:   "has-course",
	Short: "check whether a learner owns a course",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		learner, _ := cmd.Flags().GetString("learner")
		courseID, _ := cmd.Flags().GetString("course")
		if learner == "" || courseID == "" {
			panic("learner and course required")
		}

		has, err := provideMarketService(database).HasCourse(ctx, learner, courseID)
		if err != nil {
			cmd.PrintErrln("has course error:", err)
			return
		}

		cmd.Println(has)
	},
}

var enqueueSignalCmd = &cobra.Command{
	Use:   "enqueue-signal",
	Short: "queue a completion signal for the cashier worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		learner, _ := cmd.Flags().GetString("learner")
		courseID, _ := cmd.Flags().GetString("course")
		if learner == "" || courseID == "" {
			panic("learner and course required")
		}

		signal := &core.CompletionSignal{
			TraceID:  uuid.New(),
			UserID:   learner,
			CourseID: courseID,
			Status:   core.SignalStatusPending,
		}
		if err := provideSignalStore(database).Save(ctx, []*core.CompletionSignal{signal}); err != nil {
			cmd.PrintErrln("enqueue signal error:", err)
			return
		}

		cmd.Println("signal queued", signal.TraceID)
	},
}

func init() {
	rootCmd.AddCommand(purchaseCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(hasCourseCmd)
	rootCmd.AddCommand(enqueueSignalCmd)

	for _, cmd := range []*cobra.Command{purchaseCmd, completeCmd, hasCourseCmd, enqueueSignalCmd} {
		cmd.Flags().String("learner", "", "learner address")
		cmd.Flags().String("course", "", "external course id")
	}
	completeCmd.Flags().String("from", "", "caller address, default genesis oracle")
}

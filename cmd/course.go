package cmd

import (
	"encoding/json"

	"coursemarket/core"
	"coursemarket/pkg/number"

	"github.com/spf13/cobra"
)

var addCourseCmd = &cobra.Command{
	Use:     "add-course",
	Aliases: []string{"ac"},
	Short:   "add a course to the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		courseID, _ := cmd.Flags().GetString("id")
		if courseID == "" {
			panic("invalid course id")
		}
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			panic("invalid course name")
		}
		price, _ := cmd.Flags().GetString("price")
		metadataURI, _ := cmd.Flags().GetString("metadata")
		mediaURI, _ := cmd.Flags().GetString("media")
		caller, _ := cmd.Flags().GetString("from")
		if caller == "" {
			caller = cfg.Genesis.Owner
		}

		course := &core.Course{
			CourseID:    courseID,
			Name:        name,
			Price:       number.Decimal(price),
			MetadataURI: metadataURI,
			MediaURI:    mediaURI,
		}

		id, err := provideCourseService(database).AddCourse(ctx, caller, course)
		if err != nil {
			cmd.PrintErrln("add course error:", err)
			return
		}

		cmd.Println("course added, sequence number", id)
	},
}

var listCoursesCmd = &cobra.Command{
	Use:     "courses",
	Aliases: []string{"lc"},
	Short:   "list catalog courses",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		courses, err := provideCourseStore(database).All(ctx)
		if err != nil {
			cmd.PrintErrln("list courses error:", err)
			return
		}

		for _, course := range courses {
			bs, _ := json.Marshal(course)
			cmd.Println(string(bs))
		}
	},
}

var setActiveCmd = &cobra.Command{
	Use:   "set-active",
	Short: "toggle course purchasability",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		id, _ := cmd.Flags().GetUint64("id")
		if id == 0 {
			panic("invalid sequence number")
		}
		active, _ := cmd.Flags().GetBool("active")
		caller, _ := cmd.Flags().GetString("from")
		if caller == "" {
			caller = cfg.Genesis.Owner
		}

		if err := provideCourseService(database).SetActive(ctx, caller, id, active); err != nil {
			cmd.PrintErrln("set active error:", err)
			return
		}

		cmd.Println("course", id, "active:", active)
	},
}

func init() {
	rootCmd.AddCommand(addCourseCmd)
	rootCmd.AddCommand(listCoursesCmd)
	rootCmd.AddCommand(setActiveCmd)

	addCourseCmd.Flags().String("id", "", "external course id")
	addCourseCmd.Flags().String("name", "", "course display name")
	addCourseCmd.Flags().String("price", "0", "price in token base units")
	addCourseCmd.Flags().String("metadata", "", "course metadata uri")
	addCourseCmd.Flags().String("media", "", "course media uri")
	addCourseCmd.Flags().String("from", "", "caller address, default genesis owner")

	setActiveCmd.Flags().Uint64("id", 0, "course sequence number")
	setActiveCmd.Flags().Bool("active", true, "purchasable or not")
	setActiveCmd.Flags().String("from", "", "caller address, default genesis owner")
}

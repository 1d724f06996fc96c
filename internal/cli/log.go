package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bitewise-app/bitewise/internal/app/nutrition"
	"github.com/bitewise-app/bitewise/internal/daemon"
)

func init() {
	logCmd.Flags().StringVar(&logUser, "user", "", "User to log for (required)")
	logCmd.Flags().IntVar(&logCalories, "calories", 0, "Calories (0 asks the analyzer)")
	logCmd.Flags().Float64Var(&logProtein, "protein", 0, "Protein in grams")
	logCmd.Flags().Float64Var(&logCarbs, "carbs", 0, "Carbs in grams")
	logCmd.Flags().Float64Var(&logFat, "fat", 0, "Fat in grams")
	logCmd.Flags().BoolVar(&logPhoto, "photo", false, "The meal has a photo attached")
	logCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(logCmd)
}

var (
	logUser     string
	logCalories int
	logProtein  float64
	logCarbs    float64
	logFat      float64
	logPhoto    bool
)

var logCmd = &cobra.Command{
	Use:   "log <meal description>",
	Short: "Log a meal",
	Long: `Log a meal for a user. With no --calories flag the nutrition
analyzer estimates the macros from the description.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	meal, err := d.Nutrition.LogMeal(context.Background(), nutrition.LogMealRequest{
		UserID:   logUser,
		Name:     strings.Join(args, " "),
		Calories: logCalories,
		Protein:  logProtein,
		Carbs:    logCarbs,
		Fat:      logFat,
		HasPhoto: logPhoto,
	})
	if err != nil {
		if meal == nil {
			return err
		}
		fmt.Printf("Meal logged, but evaluation failed: %v\n", err)
	}

	fmt.Printf("Logged %q: %d kcal (%.0fg protein, %.0fg carbs, %.0fg fat)\n",
		meal.Name, meal.Calories, meal.Protein, meal.Carbs, meal.Fat)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bitewise-app/bitewise/internal/daemon"
	"github.com/bitewise-app/bitewise/internal/domain"
)

func init() {
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name")
	userCreateCmd.Flags().IntVar(&userGoal, "goal", 2000, "Daily calorie goal")
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userSummaryCmd)
	userCmd.AddCommand(userCompleteCmd)
	rootCmd.AddCommand(userCmd)
}

var (
	userName string
	userGoal int
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user profiles",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <user-id>",
	Short: "Create a user profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserCreate,
}

var userSummaryCmd = &cobra.Command{
	Use:   "summary <user-id> [day]",
	Short: "Show a user's meals and totals for a day (default today)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runUserSummary,
}

var userCompleteCmd = &cobra.Command{
	Use:   "complete <user-id> [day]",
	Short: "Close out a user's day (default today)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runUserComplete,
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	p, err := d.Nutrition.CreateProfile(args[0], userName, userGoal)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s (goal %d kcal/day)\n", p.UserID, p.DailyCalorieGoal)
	return nil
}

func dayArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return time.Now().UTC().Format(domain.DayKey)
}

func runUserSummary(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	day := dayArg(args)
	summary, err := d.Nutrition.Summary(args[0], day)
	if err != nil {
		return err
	}

	fmt.Printf("%s on %s\n", summary.Profile.UserID, day)
	if summary.Totals == nil {
		fmt.Println("No meals logged.")
		return nil
	}
	fmt.Printf("Total: %d / %d kcal over %d meal(s)\n",
		summary.Totals.Calories, summary.Profile.DailyCalorieGoal, summary.Totals.Meals)
	for _, m := range summary.Meals {
		fmt.Printf("  %s  %-30s %5d kcal\n", m.LoggedAt.Format("15:04"), m.Name, m.Calories)
	}
	return nil
}

func runUserComplete(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	day := dayArg(args)
	totals, err := d.Nutrition.CompleteDay(context.Background(), args[0], day)
	if err != nil {
		return err
	}
	fmt.Printf("Closed %s: %d kcal over %d meal(s)\n", day, totals.Calories, totals.Meals)
	return nil
}

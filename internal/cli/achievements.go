package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bitewise-app/bitewise/internal/daemon"
)

func init() {
	achievementsCmd.Flags().StringVar(&achievementsUser, "user", "", "Show a user's earned achievements and progress")
	achievementsCmd.Flags().BoolVar(&achievementsAll, "all", false, "Include hidden achievements")
	rootCmd.AddCommand(achievementsCmd)
}

var (
	achievementsUser string
	achievementsAll  bool
)

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"ach"},
	Short:   "List the achievement catalog or a user's progress",
	RunE:    runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	if achievementsUser != "" {
		return printUserAchievements(d, achievementsUser)
	}
	return printCatalog(d)
}

func printCatalog(d *daemon.Daemon) error {
	defs, err := d.DB.ListDefinitions()
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		fmt.Println("No achievements seeded. Run 'bitewise seed' first.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tTARGET\tPOINTS")
	for _, def := range defs {
		if def.Hidden && !achievementsAll {
			continue
		}
		target := "-"
		if def.Criteria.Count > 0 {
			target = fmt.Sprintf("%d", def.Criteria.Count)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			def.ID, def.Name, def.Type, target, def.Reward.Points)
	}
	return w.Flush()
}

func printUserAchievements(d *daemon.Daemon, userID string) error {
	ua, err := d.DB.Get(userID)
	if err != nil {
		return err
	}
	if ua == nil {
		fmt.Printf("No achievement record for %s. Create the user first.\n", userID)
		return nil
	}

	fmt.Printf("User: %s\nTotal points: %d\nEarned: %d\n\n", ua.UserID, ua.TotalPoints, len(ua.Earned))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACHIEVEMENT\tCOUNT\tSTREAK\tBEST\tDONE")
	for id, p := range ua.Trackers {
		done := ""
		if p.Completed {
			done = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
			id, p.CurrentCount, p.CurrentStreak, p.HighestStreak, done)
	}
	return w.Flush()
}

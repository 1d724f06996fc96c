package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bitewise-app/bitewise/internal/daemon"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon health and catalog state",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	fmt.Printf("Data dir: %s\n", daemon.BitewiseHome())
	fmt.Printf("API:      %s:%d\n", d.Config.API.Host, d.Config.API.Port)

	if n, err := d.DB.DefinitionCount(); err == nil {
		fmt.Printf("Catalog:  %d achievement(s)\n", n)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tSTATUS\tDETAIL")
	for _, s := range d.Health.CheckNow(context.Background()) {
		state := "ok"
		if !s.Healthy {
			state = "failing"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, state, s.Error)
	}
	return w.Flush()
}

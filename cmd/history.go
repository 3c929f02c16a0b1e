package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:         "history",
	Short:       "List journaled signup and login attempts",
	Annotations: map[string]string{"journal": "required"},
	Run: func(cmd *cobra.Command, args []string) {
		runHistory(cmd.Context(), historyLimit)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum number of attempts to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(ctx context.Context, limit int) {
	attempts, err := Journal.ListAttempts(ctx, limit)
	if err != nil {
		die("Failed to list attempts", err)
	}

	if len(attempts) == 0 {
		fmt.Println("No attempts recorded.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tACTION\tLABEL\tOUTCOME\tSTATUS\tWHEN")
	fmt.Fprintln(w, "--\t------\t-----\t-------\t------\t----")

	for _, a := range attempts {
		label := a.Label
		if label == "" {
			label = "-"
		}
		status := "-"
		if a.StatusCode != 0 {
			status = fmt.Sprintf("%d", a.StatusCode)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Action, label, a.Outcome, status, a.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	w.Flush()
}

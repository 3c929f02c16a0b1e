package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:         "reset",
	Short:       "Drop the attempt journal",
	Annotations: map[string]string{"journal": "required"},
	Run: func(cmd *cobra.Command, args []string) {
		reader := bufio.NewReader(os.Stdin)

		if !resetForce && !confirm(reader, os.Stdout, "⚠️  Are you sure you want to DROP the attempt journal?") {
			fmt.Println("Aborted.")
			return
		}

		fmt.Println("🗑️  Clearing Journal...")
		if err := Journal.Reset(cmd.Context()); err != nil {
			die("Failed to reset journal", err)
		}
		fmt.Println("✨ Journal Reset Complete.")
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func confirm(r *bufio.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)
	res, _ := r.ReadString('\n')
	res = strings.TrimSpace(strings.ToLower(res))
	return res == "y" || res == "yes"
}

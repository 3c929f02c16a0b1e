package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var signupName string

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Capture a still and register it under a name",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runSignup(cmd.Context(), opts, signupName)
	},
}

func init() {
	signupCmd.Flags().StringVarP(&signupName, "name", "n", "", "User name to register")
	rootCmd.AddCommand(signupCmd)
}

// runSignup opens the camera, captures a still and posts it to /faceid/signup/.
func runSignup(ctx context.Context, o Options, name string) error {
	s, err := newSession(o, name)
	if err != nil {
		return err
	}
	defer s.Close()

	s.start(ctx)
	s.ctrl.CaptureFrame()

	fmt.Fprintf(os.Stderr, "📝 Registering '%s'...\n", name)
	return outcomeError("signup", s.ctrl.SubmitSignup(ctx))
}

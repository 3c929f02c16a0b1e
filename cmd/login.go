package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var loginName string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a fresh still from the camera",
	Long:  "Captures a fresh still and posts it to /faceid/login/. --name is only used to build the success redirect.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runLogin(cmd.Context(), opts, loginName)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginName, "name", "n", "", "User name carried in the success redirect")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(ctx context.Context, o Options, name string) error {
	s, err := newSession(o, name)
	if err != nil {
		return err
	}
	defer s.Close()

	s.start(ctx)

	fmt.Fprintln(os.Stderr, "🔐 Logging in...")
	return outcomeError("login", s.ctrl.SubmitLogin(ctx))
}

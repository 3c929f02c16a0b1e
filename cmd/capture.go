package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var captureOut string

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a still to a file without contacting the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		o := opts
		o.StillPath = captureOut
		return runCapture(cmd.Context(), o)
	},
}

func init() {
	captureCmd.Flags().StringVarP(&captureOut, "out", "o", "still.png", "Output file (format follows the extension)")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(ctx context.Context, o Options) error {
	s, err := newSession(o, "")
	if err != nil {
		return err
	}
	defer s.Close()

	s.start(ctx)
	if !s.ctrl.CaptureFrame() {
		return errors.New("no frame captured")
	}
	return nil
}

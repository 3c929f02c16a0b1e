package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresmejia3/faceid/internal/log"
	"github.com/andresmejia3/faceid/internal/store"
	"github.com/andresmejia3/faceid/internal/utils"
	"github.com/spf13/cobra"
)

// Options holds shared configuration for the signup, login and capture commands
type Options struct {
	Server    string
	Source    string
	Width     int
	Height    int
	Fit       bool
	Timeout   time.Duration
	Warmup    int
	Preview   bool
	StillPath string
	LogLevel  string
}

const (
	defaultServer = "http://localhost:8000"
	defaultSource = "0"
)

var (
	opts Options

	// Journal is the optional attempt journal shared by subcommands; nil when no database is configured.
	Journal *store.Store
	// dbURL is the connection string
	dbURL string
)

// Version is the application version.
const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "faceid",
	Short:   "Face-ID signup and login from the command line",
	Long:    "Captures a still from a camera and submits it to a face-ID backend's /faceid/signup/ or /faceid/login/ endpoint.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.Init(opts.LogLevel)

		if opts.Server == "" {
			opts.Server = utils.EnvOr("FACEID_SERVER", defaultServer)
		}
		if opts.Source == "" {
			opts.Source = utils.EnvOr("FACEID_CAMERA", defaultSource)
		}

		// If no flag was provided, try to build the connection string from the environment
		if dbURL == "" {
			dbURL = utils.PostgresURLFromEnv()
		}
		if dbURL == "" {
			if requiresJournal(cmd) {
				return fmt.Errorf("%s needs a journal database: pass --db or set POSTGRES_HOST", cmd.Name())
			}
			return nil
		}

		var err error
		// Use the command's context (which will be cancellable) for the connection
		Journal, err = store.New(cmd.Context(), dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to journal database: %w", err)
		}
		log.Info("journal enabled")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeJournal()
	},
}

// closeJournal releases the journal connection. It is safe to call more than once.
// PersistentPostRun is skipped when RunE fails, so Execute and die call it too.
func closeJournal() {
	if Journal == nil {
		return
	}
	// The main context may already be cancelled (Ctrl+C) and we still need to close.
	Journal.Close(context.Background())
	Journal = nil
}

// die closes the journal before utils.Die exits the process.
func die(msg string, err error) {
	closeJournal()
	utils.Die(msg, err)
}

// requiresJournal reports whether cmd only makes sense with a database.
func requiresJournal(cmd *cobra.Command) bool {
	return cmd.Annotations["journal"] == "required"
}

func Execute() {
	// Create a context that listens for Ctrl+C (SIGINT) or Kill (SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	err := rootCmd.ExecuteContext(ctx)
	closeJournal()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.Server, "server", "s", "", "Face-ID backend base URL (default $FACEID_SERVER or "+defaultServer+")")
	pf.StringVarP(&opts.Source, "source", "c", "", "Camera index or image/video path (default $FACEID_CAMERA or "+defaultSource+")")
	pf.IntVar(&opts.Width, "width", 400, "Frame buffer width in pixels")
	pf.IntVar(&opts.Height, "height", 300, "Frame buffer height in pixels")
	pf.BoolVar(&opts.Fit, "fit", false, "Scale the frame buffer height to the camera's aspect ratio")
	pf.DurationVar(&opts.Timeout, "timeout", 0, "Overall HTTP request timeout (0 = none)")
	pf.IntVar(&opts.Warmup, "warmup", 5, "Frames discarded after opening the camera")
	pf.BoolVar(&opts.Preview, "preview", false, "Show the captured still in a window")
	pf.StringVar(&opts.StillPath, "still", "", "Also write the captured still to this file")
	pf.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&dbURL, "db", "", "PostgreSQL connection string for the attempt journal (default built from POSTGRES_* env)")
}

// validateOptions ensures all CLI arguments are valid before opening the camera.
func validateOptions(o *Options) error {
	if o.Width < 1 || o.Height < 1 {
		return fmt.Errorf("frame buffer must be at least 1x1, got %dx%d", o.Width, o.Height)
	}
	if o.Width > 8192 || o.Height > 8192 {
		return fmt.Errorf("frame buffer too large: %dx%d (max 8192x8192)", o.Width, o.Height)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %s", o.Timeout)
	}
	if o.Warmup < 0 {
		return fmt.Errorf("warmup must be >= 0, got %d", o.Warmup)
	}
	if o.Source == "" {
		return fmt.Errorf("camera source must not be empty")
	}
	switch o.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", o.LogLevel)
	}
	return nil
}

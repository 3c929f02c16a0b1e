package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/andresmejia3/faceid/internal/camera"
	"github.com/andresmejia3/faceid/internal/capture"
	"github.com/andresmejia3/faceid/internal/faceid"
	"github.com/andresmejia3/faceid/internal/log"
	"github.com/andresmejia3/faceid/internal/utils"
	"github.com/schollz/progressbar/v3"
)

// session is one controller plus the resources it needs released.
type session struct {
	ctrl   *capture.Controller
	view   *consoleView
	window *camera.Window
}

// newSession wires the camera, the backend client, the console view and the
// optional journal into a controller. The camera is not opened yet.
func newSession(o Options, label string) (*session, error) {
	if err := validateOptions(&o); err != nil {
		return nil, err
	}

	client, err := faceid.NewClient(o.Server, faceid.NewHTTPClient(o.Timeout))
	if err != nil {
		return nil, err
	}
	client.Progress = uploadBar

	view := &consoleView{
		out:       os.Stdout,
		status:    os.Stderr,
		label:     label,
		baseURL:   client.BaseURL(),
		saveStill: camera.SaveStill,
		stillPath: o.StillPath,
	}

	s := &session{view: view}
	if o.Preview {
		s.window = camera.NewWindow("faceid")
		view.window = s.window
	}

	scale := capture.ScaleStretch
	if o.Fit {
		scale = capture.ScaleFit
	}

	deps := capture.Deps{
		Devices: camera.Devices{
			Source: o.Source,
			Warmup: o.Warmup,
		},
		View:     view,
		Notifier: view,
		Client:   client,
		Logger:   log.L(),
	}
	// Assigning a nil *store.Store would make a non-nil interface
	if Journal != nil {
		deps.Journal = Journal
	}

	s.ctrl = capture.New(deps, capture.Config{Width: o.Width, Height: o.Height, Scale: scale})
	log.Debug("session ready", "server", client.BaseURL(), "source", o.Source, "buffer", fmt.Sprintf("%dx%d", o.Width, o.Height), "scale", scale)
	return s, nil
}

// start opens the camera. A failure has already been alerted and is not fatal:
// later actions behave as they would on a page without camera access.
func (s *session) start(ctx context.Context) {
	fmt.Fprintln(os.Stderr, "🎥 Requesting camera access...")
	if err := s.ctrl.Initialize(ctx); err != nil {
		utils.ShowError("Camera unavailable", err)
	}
}

func (s *session) Close() {
	s.ctrl.Close()
	if s.window != nil {
		s.window.Close()
	}
}

// uploadBar renders a byte progress bar for each multipart upload.
func uploadBar(size int64) io.Writer {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetDescription("📤 Uploading"),
		progressbar.OptionSetWriter(os.Stderr), // Write bar to Stderr
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)
}

// outcomeError maps a non-successful outcome to a command error.
func outcomeError(action string, o capture.Outcome) error {
	if o == capture.Succeeded {
		return nil
	}
	return fmt.Errorf("%s %s", action, o)
}

// Package capture drives the camera-to-backend flow: open the camera, grab a
// still into a frame buffer, encode it and submit it for signup or login.
//
// The UI is reached only through the View and Notifier interfaces.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/andresmejia3/faceid/internal/types"
)

// User-facing alert texts.
const (
	MsgCameraError   = "Error accessing webcam"
	MsgSignupInvalid = "Name and photo are required."
	MsgSignupOK      = "Registration successful."
	MsgSignupFailed  = "Registration failed."
	MsgLoginInvalid  = "Photo is required."
	MsgLoginOK       = "Login successful."
	MsgLoginFailed   = "Login failed."
)

// ErrNoStream is returned when a frame is requested before a camera stream is bound.
var ErrNoStream = errors.New("no camera stream bound")

// Stream is a live video source.
type Stream interface {
	Read() (image.Image, error)
	Close() error
}

// Devices grants access to a video-only media stream.
type Devices interface {
	UserMedia(ctx context.Context) (Stream, error)
}

// View is the on-screen surface: a live preview, a still display and a label field.
type View interface {
	BindPreview(s Stream)
	ShowStill(img image.Image)
	Label() string
}

// Notifier delivers alerts and navigation requests to the user.
type Notifier interface {
	Alert(msg string)
	Navigate(target string)
}

// Submitter is the remote face-ID service.
type Submitter interface {
	Signup(ctx context.Context, name string, photo types.Payload) (types.AuthResult, error)
	Login(ctx context.Context, photo types.Payload) (types.AuthResult, error)
}

// Recorder persists submission attempts. Optional.
type Recorder interface {
	Record(ctx context.Context, a types.Attempt) (int64, error)
}

// Outcome is the terminal state of a submit action.
type Outcome int

const (
	Succeeded Outcome = iota // server answered success=true
	Rejected                 // server answered success=false
	Invalid                  // local validation failed, nothing was sent
	Failed                   // transport, parse or encoding error
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Rejected:
		return "rejected"
	case Invalid:
		return "invalid"
	default:
		return "failed"
	}
}

// Config holds the frame buffer geometry.
type Config struct {
	Width  int
	Height int
	Scale  ScaleMode
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Devices  Devices
	View     View
	Notifier Notifier
	Client   Submitter
	Journal  Recorder     // may be nil
	Logger   *slog.Logger // defaults to slog.Default()
}

// Controller owns the camera stream and the frame buffer for one session.
type Controller struct {
	devices Devices
	view    View
	notify  Notifier
	client  Submitter
	journal Recorder
	log     *slog.Logger

	// mu guards stream and buf. It is never held across network I/O.
	mu     sync.Mutex
	stream Stream
	buf    *FrameBuffer
}

// New creates a controller with an empty frame buffer.
func New(deps Deps, cfg Config) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		devices: deps.Devices,
		view:    deps.View,
		notify:  deps.Notifier,
		client:  deps.Client,
		journal: deps.Journal,
		log:     logger,
		buf:     NewFrameBuffer(cfg.Width, cfg.Height, cfg.Scale),
	}
}

// Initialize requests camera access and binds the stream to the preview.
// On failure the user is alerted once and the controller stays usable without a stream.
func (c *Controller) Initialize(ctx context.Context) error {
	stream, err := c.devices.UserMedia(ctx)
	if err != nil {
		c.log.Error("error accessing webcam", "err", err)
		c.notify.Alert(MsgCameraError)
		return fmt.Errorf("camera unavailable: %w", err)
	}

	c.mu.Lock()
	prev := c.stream
	c.stream = stream
	c.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	c.view.BindPreview(stream)
	return nil
}

// CaptureFrame draws the current video frame into the buffer and shows it as a still.
// It reports whether a frame was drawn; without a stream it logs and leaves the buffer unchanged.
func (c *Controller) CaptureFrame() bool {
	c.mu.Lock()
	err := c.drawLocked()
	still := c.buf.Image()
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("capture skipped", "err", err)
		return false
	}
	c.view.ShowStill(still)
	return true
}

// SubmitSignup registers the label from the view with the captured still.
func (c *Controller) SubmitSignup(ctx context.Context) Outcome {
	name := c.view.Label()

	c.mu.Lock()
	hasFrame := c.buf.Drawn()
	c.mu.Unlock()

	if name == "" || !hasFrame {
		c.notify.Alert(MsgSignupInvalid)
		c.record(ctx, "signup", name, Invalid, 0, "missing name or photo")
		return Invalid
	}

	photo, err := c.encode()
	if err != nil {
		c.log.Error("failed to encode frame", "err", err)
		c.record(ctx, "signup", name, Failed, 0, err.Error())
		return Failed
	}

	c.log.Debug("submitting signup", "name", name, "bytes", len(photo.Data), "mime", photo.MIME)
	res, err := c.client.Signup(ctx, name, photo)
	if err != nil {
		c.log.Error("signup request failed", "err", err)
		c.record(ctx, "signup", name, Failed, res.StatusCode, err.Error())
		return Failed
	}

	if !res.Success {
		c.notify.Alert(MsgSignupFailed)
		c.record(ctx, "signup", name, Rejected, res.StatusCode, "")
		return Rejected
	}

	c.notify.Alert(MsgSignupOK)
	c.notify.Navigate("/")
	c.record(ctx, "signup", name, Succeeded, res.StatusCode, "")
	return Succeeded
}

// SubmitLogin draws a fresh frame from the live stream and submits it for login.
// A previously captured still is never reused.
func (c *Controller) SubmitLogin(ctx context.Context) Outcome {
	label := c.view.Label()

	c.mu.Lock()
	drawErr := c.drawLocked()
	c.mu.Unlock()

	if drawErr != nil {
		c.log.Warn("login capture failed", "err", drawErr)
		c.notify.Alert(MsgLoginInvalid)
		c.record(ctx, "login", label, Invalid, 0, drawErr.Error())
		return Invalid
	}

	photo, err := c.encode()
	if err != nil {
		c.log.Error("failed to encode frame", "err", err)
		c.record(ctx, "login", label, Failed, 0, err.Error())
		return Failed
	}

	c.log.Debug("submitting login", "bytes", len(photo.Data), "mime", photo.MIME)
	res, err := c.client.Login(ctx, photo)
	if err != nil {
		c.log.Error("login request failed", "err", err)
		c.record(ctx, "login", label, Failed, res.StatusCode, err.Error())
		return Failed
	}

	if !res.Success {
		c.notify.Alert(MsgLoginFailed)
		c.record(ctx, "login", label, Rejected, res.StatusCode, "")
		return Rejected
	}

	if res.RedirectURL != "" {
		c.log.Debug("server suggested redirect", "redirect_url", res.RedirectURL)
	}
	if label == "" {
		label = res.Name
	}
	c.notify.Alert(MsgLoginOK)
	c.notify.Navigate(SuccessTarget(label))
	c.record(ctx, "login", label, Succeeded, res.StatusCode, "")
	return Succeeded
}

// Close releases the camera stream.
func (c *Controller) Close() error {
	c.mu.Lock()
	s := c.stream
	c.stream = nil
	c.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.Close()
}

// SuccessTarget is the post-login destination: /success?user_name=<label>, or / without a label.
func SuccessTarget(label string) string {
	if label == "" {
		return "/"
	}
	return "/success?" + url.Values{"user_name": {label}}.Encode()
}

func (c *Controller) drawLocked() error {
	if c.stream == nil {
		return ErrNoStream
	}
	frame, err := c.stream.Read()
	if err != nil {
		return fmt.Errorf("failed to read video frame: %w", err)
	}
	c.buf.Draw(frame)
	return nil
}

func (c *Controller) encode() (types.Payload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return EncodeFrame(c.buf)
}

func (c *Controller) record(ctx context.Context, action, label string, o Outcome, status int, detail string) {
	if c.journal == nil {
		return
	}
	// Recorded even when the submit context was cancelled.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	_, err := c.journal.Record(rctx, types.Attempt{
		Action:     action,
		Label:      label,
		Outcome:    o.String(),
		StatusCode: status,
		Detail:     detail,
	})
	if err != nil {
		c.log.Warn("failed to journal attempt", "action", action, "err", err)
	}
}

package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/andresmejia3/faceid/internal/capture"
)

func validOptions() Options {
	return Options{
		Server:   "http://localhost:8000",
		Source:   "0",
		Width:    400,
		Height:   300,
		Warmup:   5,
		LogLevel: "info",
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *Options)
		wantErr bool
	}{
		{name: "Valid options", mutate: func(o *Options) {}},
		{name: "Zero width", mutate: func(o *Options) { o.Width = 0 }, wantErr: true},
		{name: "Negative height", mutate: func(o *Options) { o.Height = -1 }, wantErr: true},
		{name: "Oversized buffer", mutate: func(o *Options) { o.Width = 10000 }, wantErr: true},
		{name: "Negative timeout", mutate: func(o *Options) { o.Timeout = -time.Second }, wantErr: true},
		{name: "Explicit timeout", mutate: func(o *Options) { o.Timeout = 5 * time.Second }},
		{name: "Negative warmup", mutate: func(o *Options) { o.Warmup = -1 }, wantErr: true},
		{name: "Empty source", mutate: func(o *Options) { o.Source = "" }, wantErr: true},
		{name: "File source", mutate: func(o *Options) { o.Source = "/tmp/face.png" }},
		{name: "Unknown log level", mutate: func(o *Options) { o.LogLevel = "trace" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOptions()
			tt.mutate(&o)
			if err := validateOptions(&o); (err != nil) != tt.wantErr {
				t.Errorf("validateOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSessionRejectsBadServer(t *testing.T) {
	o := validOptions()
	o.Server = "localhost:8000"
	if _, err := newSession(o, "alice"); err == nil {
		t.Fatal("expected error for server URL without scheme")
	}
}

func TestOutcomeError(t *testing.T) {
	if err := outcomeError("login", capture.Succeeded); err != nil {
		t.Errorf("expected nil for success, got %v", err)
	}
	for _, o := range []capture.Outcome{capture.Rejected, capture.Invalid, capture.Failed} {
		err := outcomeError("login", o)
		if err == nil || err.Error() != "login "+o.String() {
			t.Errorf("outcomeError(%v) = %v", o, err)
		}
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		r := bufio.NewReader(strings.NewReader(tt.input))
		if got := confirm(r, &out, "Drop?"); got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Drop? [y/N]") {
			t.Errorf("prompt not written: %q", out.String())
		}
	}
}

func TestJournalAnnotations(t *testing.T) {
	for _, c := range []struct {
		name string
		want bool
	}{
		{"history", true},
		{"reset", true},
		{"signup", false},
		{"login", false},
		{"capture", false},
	} {
		sub, _, err := rootCmd.Find([]string{c.name})
		if err != nil {
			t.Fatalf("command %s not registered: %v", c.name, err)
		}
		if got := requiresJournal(sub); got != c.want {
			t.Errorf("requiresJournal(%s) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestCloseJournalIsIdempotent(t *testing.T) {
	prev := Journal
	Journal = nil
	t.Cleanup(func() { Journal = prev })

	// Reached from PersistentPostRun, Execute and die; repeated calls must be harmless
	closeJournal()
	closeJournal()
	if Journal != nil {
		t.Error("Journal should stay nil after close")
	}
}

type fakeWindow struct {
	shown int
	err   error
}

func (w *fakeWindow) Show(img image.Image) error {
	w.shown++
	return w.err
}

func TestConsoleView(t *testing.T) {
	var out, status bytes.Buffer
	win := &fakeWindow{}
	var savedPath string
	v := &consoleView{
		out:     &out,
		status:  &status,
		label:   "alice",
		baseURL: "http://localhost:8000/",
		window:  win,
		saveStill: func(path string, img image.Image) error {
			savedPath = path
			return nil
		},
		stillPath: "/tmp/still.png",
	}

	if v.Label() != "alice" {
		t.Errorf("Label() = %q", v.Label())
	}

	v.ShowStill(image.NewRGBA(image.Rect(0, 0, 40, 30)))
	if win.shown != 1 {
		t.Errorf("expected window to show 1 still, got %d", win.shown)
	}
	if savedPath != "/tmp/still.png" {
		t.Errorf("still saved to %q", savedPath)
	}
	if !strings.Contains(status.String(), "40x30") {
		t.Errorf("status missing dimensions: %q", status.String())
	}

	v.Alert("Login successful.")
	v.Navigate("/success?user_name=alice")
	if v.navigated != "http://localhost:8000/success?user_name=alice" {
		t.Errorf("navigated = %q", v.navigated)
	}
	if !strings.Contains(out.String(), "🔔 Login successful.") || !strings.Contains(out.String(), v.navigated) {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestConsoleViewReportsPreviewErrors(t *testing.T) {
	var out, status bytes.Buffer
	v := &consoleView{
		out:       &out,
		status:    &status,
		window:    &fakeWindow{err: errors.New("no display")},
		saveStill: func(string, image.Image) error { return errors.New("disk full") },
		stillPath: "still.png",
	}

	v.ShowStill(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if !strings.Contains(status.String(), "no display") || !strings.Contains(status.String(), "disk full") {
		t.Errorf("errors not reported: %q", status.String())
	}
	if out.Len() != 0 {
		t.Errorf("preview errors must not be alerts: %q", out.String())
	}
}

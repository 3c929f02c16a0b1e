package cmd

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/andresmejia3/faceid/internal/capture"
)

// stillShower displays a still somewhere other than the terminal.
type stillShower interface {
	Show(img image.Image) error
}

// consoleView stands in for the web page: alerts and navigation are printed,
// the label comes from --name, stills go to an optional window and/or file.
type consoleView struct {
	out     io.Writer // alerts and navigation
	status  io.Writer // progress chatter
	label   string
	baseURL string

	window    stillShower
	saveStill func(path string, img image.Image) error
	stillPath string

	navigated string
}

func (v *consoleView) BindPreview(s capture.Stream) {
	fmt.Fprintln(v.status, "🎥 Camera ready")
}

func (v *consoleView) ShowStill(img image.Image) {
	b := img.Bounds()
	fmt.Fprintf(v.status, "📸 Still captured (%dx%d)\n", b.Dx(), b.Dy())

	if v.window != nil {
		if err := v.window.Show(img); err != nil {
			fmt.Fprintf(v.status, "⚠️  Preview failed: %v\n", err)
		}
	}
	if v.stillPath != "" && v.saveStill != nil {
		if err := v.saveStill(v.stillPath, img); err != nil {
			fmt.Fprintf(v.status, "⚠️  Failed to save still: %v\n", err)
		} else {
			fmt.Fprintf(v.status, "💾 Still saved to %s\n", v.stillPath)
		}
	}
}

func (v *consoleView) Label() string {
	return v.label
}

func (v *consoleView) Alert(msg string) {
	fmt.Fprintf(v.out, "🔔 %s\n", msg)
}

// Navigate prints the absolute URL the browser would have loaded.
func (v *consoleView) Navigate(target string) {
	v.navigated = strings.TrimRight(v.baseURL, "/") + target
	fmt.Fprintf(v.out, "➡️  %s\n", v.navigated)
}

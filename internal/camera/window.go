package camera

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Window shows stills in a native OpenCV window.
type Window struct {
	w *gocv.Window
}

// NewWindow opens a window titled title.
func NewWindow(title string) *Window {
	return &Window{w: gocv.NewWindow(title)}
}

// Show replaces the window contents with img.
func (w *Window) Show(img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("failed to convert still: %w", err)
	}
	defer mat.Close()

	w.w.IMShow(mat)
	w.w.WaitKey(1)
	return nil
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.w.Close()
}

// SaveStill writes img to path; the format follows the file extension.
func SaveStill(path string, img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("failed to convert still: %w", err)
	}
	defer mat.Close()

	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("failed to write still to %s", path)
	}
	return nil
}

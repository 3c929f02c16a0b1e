// Package camera opens video sources through OpenCV and adapts them to capture.Stream.
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strconv"
	"sync"

	"github.com/andresmejia3/faceid/internal/capture"
	"gocv.io/x/gocv"
)

// ErrEmptyFrame is returned when the device yields no image.
var ErrEmptyFrame = errors.New("camera returned an empty frame")

// Devices opens Source, which is either a device index ("0") or a file/URL
// that OpenCV can read (a still image, a video file, an RTSP stream).
type Devices struct {
	Source string
	Warmup int // frames discarded after opening, lets auto-exposure settle
}

// UserMedia opens the configured source.
func (d Devices) UserMedia(ctx context.Context) (capture.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		vc  *gocv.VideoCapture
		err error
	)
	idx, convErr := strconv.Atoi(d.Source)
	isDevice := convErr == nil
	if isDevice {
		vc, err = gocv.OpenVideoCapture(idx)
	} else {
		vc, err = gocv.OpenVideoCapture(d.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %q: %w", d.Source, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("camera %q could not be opened", d.Source)
	}

	s := &Stream{vc: vc, mat: gocv.NewMat(), repeatLast: !isDevice}
	for i := 0; i < d.Warmup; i++ {
		if ctx.Err() != nil {
			s.Close()
			return nil, ctx.Err()
		}
		// Stills and short files run out quickly; stop discarding at EOF
		if ok := vc.Read(&s.mat); !ok || s.mat.Empty() {
			break
		}
		// Keep the frame so a single-image source still has something to return
		if s.repeatLast {
			if img, err := s.mat.ToImage(); err == nil {
				s.last = img
			}
		}
	}
	return s, nil
}

// Stream is an open OpenCV capture.
type Stream struct {
	mu   sync.Mutex
	vc   *gocv.VideoCapture
	mat  gocv.Mat
	last image.Image

	// repeatLast is set for file and URL sources. A live device never
	// substitutes an old frame for a failed read.
	repeatLast bool
}

// Read grabs the next frame. File sources that have reached their end (a
// single image, a finished video) keep returning the last frame read.
func (s *Stream) Read() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vc == nil {
		return nil, errors.New("camera stream closed")
	}
	if ok := s.vc.Read(&s.mat); !ok || s.mat.Empty() {
		return s.exhausted()
	}

	img, err := s.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	if s.repeatLast {
		s.last = img
	}
	return img, nil
}

// exhausted answers a read that produced no frame.
func (s *Stream) exhausted() (image.Image, error) {
	if s.repeatLast && s.last != nil {
		return s.last, nil
	}
	return nil, ErrEmptyFrame
}

// Close releases the device.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vc == nil {
		return nil
	}
	s.mat.Close()
	err := s.vc.Close()
	s.vc = nil
	return err
}

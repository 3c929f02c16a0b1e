package capture

import (
	"errors"
	"image"

	"github.com/andresmejia3/faceid/internal/datauri"
	"github.com/andresmejia3/faceid/internal/types"
	xdraw "golang.org/x/image/draw"
)

// ErrNoFrame is returned when the frame buffer has never been drawn into.
var ErrNoFrame = errors.New("no frame captured")

// ScaleMode controls how a video frame is mapped onto the buffer.
type ScaleMode int

const (
	// ScaleStretch draws into the declared width x height regardless of the source aspect ratio.
	ScaleStretch ScaleMode = iota
	// ScaleFit keeps the declared width and derives the height from the source aspect ratio.
	ScaleFit
)

func (m ScaleMode) String() string {
	if m == ScaleFit {
		return "fit"
	}
	return "stretch"
}

// FrameBuffer holds the most recent still. It is not safe for concurrent use;
// the Controller serializes access.
type FrameBuffer struct {
	width, height int
	mode          ScaleMode
	img           *image.RGBA
}

// NewFrameBuffer creates an empty buffer with the declared pixel dimensions.
func NewFrameBuffer(width, height int, mode ScaleMode) *FrameBuffer {
	return &FrameBuffer{width: width, height: height, mode: mode}
}

// Draw scales src into the buffer, replacing the previous still.
func (b *FrameBuffer) Draw(src image.Image) {
	w, h := b.width, b.height
	sb := src.Bounds()
	if b.mode == ScaleFit && sb.Dx() > 0 {
		h = (w*sb.Dy() + sb.Dx()/2) / sb.Dx()
		if h < 1 {
			h = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	b.img = dst
}

// Drawn reports whether the buffer holds a frame.
func (b *FrameBuffer) Drawn() bool {
	return b.img != nil
}

// Image returns the current still, or nil before the first Draw.
func (b *FrameBuffer) Image() image.Image {
	if b.img == nil {
		return nil
	}
	return b.img
}

// DataURL exports the still as a PNG data URI, as a canvas does.
func (b *FrameBuffer) DataURL() (string, error) {
	if b.img == nil {
		return "", ErrNoFrame
	}
	return datauri.FromImage(b.img, datauri.MIMEPNG)
}

// EncodeFrame converts the buffer's data URI form into a binary payload
// tagged with the MIME type declared in the URI.
func EncodeFrame(b *FrameBuffer) (types.Payload, error) {
	uri, err := b.DataURL()
	if err != nil {
		return types.Payload{}, err
	}
	return datauri.Decode(uri)
}

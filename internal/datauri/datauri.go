// Package datauri converts between RFC 2397 data URIs and raw image payloads.
package datauri

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/url"
	"strings"

	"github.com/andresmejia3/faceid/internal/types"
)

const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"

	// defaultMIME applies when the header omits a media type.
	defaultMIME = "text/plain"
)

// ErrInvalid is returned for strings that are not data URIs.
var ErrInvalid = errors.New("invalid data URI")

// Encode formats data as a base64 data URI tagged with mime.
func Encode(mime string, data []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mime)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// Decode parses a data URI into its MIME type and raw bytes.
// The media type is the header segment between "data:" and the first ';'.
func Decode(uri string) (types.Payload, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return types.Payload{}, fmt.Errorf("%w: missing data: scheme", ErrInvalid)
	}
	header, body, ok := strings.Cut(rest, ",")
	if !ok {
		return types.Payload{}, fmt.Errorf("%w: missing ',' separator", ErrInvalid)
	}

	params := strings.Split(header, ";")
	mime := strings.TrimSpace(params[0])
	if mime == "" {
		mime = defaultMIME
	}
	isBase64 := false
	for _, p := range params[1:] {
		if p == "base64" {
			isBase64 = true
		}
	}

	if !isBase64 {
		raw, err := url.PathUnescape(body)
		if err != nil {
			return types.Payload{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		return types.Payload{MIME: mime, Data: []byte(raw)}, nil
	}

	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return types.Payload{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return types.Payload{MIME: mime, Data: data}, nil
}

// FromImage renders img the way a canvas export does: PNG unless JPEG is asked for.
func FromImage(img image.Image, mime string) (string, error) {
	var buf bytes.Buffer
	switch mime {
	case MIMEJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 92}); err != nil {
			return "", err
		}
	case "", MIMEPNG:
		mime = MIMEPNG
		if err := png.Encode(&buf, img); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported image type %q", mime)
	}
	return Encode(mime, buf.Bytes()), nil
}

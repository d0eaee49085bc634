package compress

import (
	"bytes"
	"errors"
	"image"

	// Source decoders, detected by content.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var errEmptyInput = errors.New("empty input")

// Info describes an encoded image without decoding its pixels.
type Info struct {
	Width  int
	Height int
	Format string // as reported by the matching decoder, e.g. "jpeg", "png", "webp"
}

// decode parses data into a pixel buffer. The container is detected from
// the bytes; EXIF orientation is not applied.
func decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, decodeError(errEmptyInput)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, decodeError(err)
	}
	return img, nil
}

// Probe reads only the image header and reports its dimensions and format.
func Probe(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, decodeError(errEmptyInput)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, decodeError(err)
	}
	return Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

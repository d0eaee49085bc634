// Package compress transcodes an encoded image into JPEG or PNG.
//
// A call decodes the input bytes (format detected from content), picks an
// encoder from the format token and re-encodes. Calls share no mutable
// state and may run concurrently.
package compress

import (
	"github.com/AnyUserName/imgcompress/internal/encoder"
)

// Compressor transcodes images using the encoders in its registry.
type Compressor struct {
	registry *encoder.Registry
}

// New creates a Compressor. A nil registry uses encoder.NewRegistry().
func New(registry *encoder.Registry) *Compressor {
	if registry == nil {
		registry = encoder.NewRegistry()
	}
	return &Compressor{registry: registry}
}

var defaultCompressor = New(nil)

// CompressImage decodes data and re-encodes it in the container selected by
// format, using the default encoders. See Compressor.CompressImage.
func CompressImage(data []byte, quality uint8, format string) ([]byte, error) {
	return defaultCompressor.CompressImage(data, quality, format)
}

// CompressImage decodes data and re-encodes it in the container selected by
// format. "jpeg" and "jpg" select JPEG, "png" selects PNG, and any other
// token falls back to JPEG. quality is handed to the encoder unvalidated;
// PNG ignores it.
//
// On failure the returned error is a *Error and the byte slice is nil.
func (c *Compressor) CompressImage(data []byte, quality uint8, format string) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}

	target := encoder.ParseTarget(format)
	enc, err := c.registry.For(target)
	if err != nil {
		return nil, encodeError(target, err)
	}

	out, err := enc.Encode(img, int(quality))
	if err != nil {
		return nil, encodeError(target, err)
	}
	return out, nil
}

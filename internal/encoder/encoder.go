package encoder

import (
	"image"
)

// Encoder encodes an image to a specific container format.
type Encoder interface {
	// Format returns the output container name ("jpeg" or "png").
	Format() string

	// Encode serializes the image. Encoders without a lossy mode ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Extension returns the file extension without dot.
	Extension() string
}

// Target is the encoder variant selected by a caller-supplied format token.
type Target int

const (
	// TargetJPEG is selected by "jpeg" and "jpg".
	TargetJPEG Target = iota
	// TargetPNG is selected by "png".
	TargetPNG
	// TargetFallback is every other token. It encodes as JPEG.
	TargetFallback
)

// ParseTarget maps a format token to a Target. Matching is case-sensitive
// and total: unrecognized tokens (including "", "PNG", typos) select
// TargetFallback.
func ParseTarget(token string) Target {
	switch token {
	case "jpeg", "jpg":
		return TargetJPEG
	case "png":
		return TargetPNG
	default:
		return TargetFallback
	}
}

// Format returns the container the target produces.
func (t Target) Format() string {
	if t == TargetPNG {
		return "png"
	}
	return "jpeg"
}

// Lossy reports whether quality affects the output for this target.
func (t Target) Lossy() bool { return t != TargetPNG }

func (t Target) String() string {
	switch t {
	case TargetJPEG:
		return "jpeg"
	case TargetPNG:
		return "png"
	default:
		return "fallback"
	}
}

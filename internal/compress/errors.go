package compress

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/imgcompress/internal/encoder"
)

// Phase identifies where a compression call failed.
type Phase string

const (
	PhaseDecode Phase = "decode"
	PhaseEncode Phase = "encode"
)

// Error is the failure returned by CompressImage and Probe.
type Error struct {
	Phase  Phase
	Target encoder.Target // meaningful for PhaseEncode only
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.prefix(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) prefix() string {
	if e.Phase == PhaseDecode {
		return "Failed to load image"
	}
	switch e.Target {
	case encoder.TargetJPEG:
		return "JPEG compression failed"
	case encoder.TargetPNG:
		return "PNG compression failed"
	default:
		return "Compression failed"
	}
}

func decodeError(err error) *Error {
	return &Error{Phase: PhaseDecode, Err: err}
}

func encodeError(t encoder.Target, err error) *Error {
	return &Error{Phase: PhaseEncode, Target: t, Err: err}
}

// IsDecode reports whether err is a decode failure.
func IsDecode(err error) bool { return isPhase(err, PhaseDecode) }

// IsEncode reports whether err is an encode failure.
func IsEncode(err error) bool { return isPhase(err, PhaseEncode) }

func isPhase(err error, p Phase) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Phase == p
	}
	return false
}

package encoder

import (
	"fmt"
	"strings"
	"sync"
)

// Registry holds the encoders backing each Target.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewRegistry creates a registry with the JPEG and PNG encoders.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	r.Register(&JPEGEncoder{})
	r.Register(&PNGEncoder{})
	return r
}

// Register installs enc for its format, replacing any previous encoder.
func (r *Registry) Register(enc Encoder) {
	r.mu.Lock()
	r.encoders[enc.Format()] = enc
	r.mu.Unlock()
}

// For returns the encoder for t. TargetFallback resolves to the JPEG encoder.
func (r *Registry) For(t Target) (Encoder, error) {
	r.mu.RLock()
	enc, ok := r.encoders[t.Format()]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no %s encoder registered", t.Format())
	}
	return enc, nil
}

// Available returns registered format names in priority order.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []string
	for _, f := range []string{"jpeg", "png"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}

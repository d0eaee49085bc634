// Package diag installs the process-wide fault reporter used at host
// boundaries. Faults are reported, never recovered into errors.
package diag

import (
	"fmt"
	"io"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

type hook struct {
	once      sync.Once
	installed atomic.Bool
	mu        sync.Mutex
	w         io.Writer
}

var global = &hook{}

// Install sets w as the destination for fault diagnostics. Only the first
// call has an effect; it returns true for that call and false afterwards.
func Install(w io.Writer) bool {
	h := global
	first := false
	h.once.Do(func() {
		h.mu.Lock()
		h.w = w
		h.mu.Unlock()
		h.installed.Store(true)
		first = true
	})
	return first
}

// Installed reports whether Install has run.
func Installed() bool { return global.installed.Load() }

// Capture must be deferred directly. If the surrounding function panics it
// writes the panic value and stack to the installed writer, then re-panics
// with the same value. Without an installed writer the panic passes through.
func Capture() {
	r := recover()
	if r == nil {
		return
	}
	global.report(r, debug.Stack())
	panic(r)
}

func (h *hook) report(v any, stack []byte) {
	if !h.installed.Load() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.w == nil {
		return
	}
	fmt.Fprintf(h.w, "[imgcompress] panic: %v\n%s", v, stack)
}

// Package server exposes compress calls over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/AnyUserName/imgcompress/internal/compress"
	"github.com/AnyUserName/imgcompress/internal/diag"
	"github.com/AnyUserName/imgcompress/internal/encoder"
	"github.com/AnyUserName/imgcompress/internal/metrics"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxBodyBytes bounds a single upload.
const DefaultMaxBodyBytes = 32 << 20

// DefaultQuality is used when the request has no quality parameter.
const DefaultQuality = 80

// Config configures the HTTP host.
type Config struct {
	MaxBodyBytes int64
	Verbose      bool
}

// Server handles compress requests. Each request is an independent call.
type Server struct {
	cfg        Config
	registry   *encoder.Registry
	compressor *compress.Compressor
}

// New creates a Server with the default encoders.
func New(cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	reg := encoder.NewRegistry()
	return &Server{cfg: cfg, registry: reg, compressor: compress.New(reg)}
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recoverMiddleware, s.logMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/compress", s.handleCompress).Methods(http.MethodPost)
	return r
}

// handleCompress reads the image from the body and replies with the
// compressed bytes, or with the error text.
//
//	POST /api/compress?format=jpeg&quality=75
func (s *Server) handleCompress(w http.ResponseWriter, r *http.Request) {
	quality, err := parseQuality(r.URL.Query().Get("quality"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	format := r.URL.Query().Get("format")

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("image exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	out, err := s.compressor.CompressImage(data, quality, format)
	metrics.Observe(format, err, time.Since(start), len(data), len(out))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "image/"+encoder.ParseTarget(format).Format())
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.Header().Set("X-Original-Size", strconv.Itoa(len(data)))
	if _, err := w.Write(out); err != nil {
		s.logf("write response: %v", err)
	}
}

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status   string   `json:"status"`
	Encoders []string `json:"encoders"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status:   "ok",
		Encoders: s.registry.Available(),
	})
}

// parseQuality accepts 0-255; the encoder decides what out-of-range
// values mean.
func parseQuality(raw string) (uint8, error) {
	if raw == "" {
		return DefaultQuality, nil
	}
	q, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid quality %q: must be an integer 0-255", raw)
	}
	return uint8(q), nil
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer diag.Capture()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.Verbose {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) logf(format string, args ...any) {
	if s.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[imgcompress] "+format+"\n", args...)
	}
}

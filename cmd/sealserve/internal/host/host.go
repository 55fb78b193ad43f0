// Package host serves a directory of published blobs over HTTP.
//
// Only two names are ever served: locator-shaped blob names and the parameter
// descriptor. Everything else is a 404, so the host never lists the directory
// and never reaches files outside it. Blobs are opaque ciphertext, which is
// what makes hosting them on a dumb static endpoint acceptable in the first
// place: the server holds no keys and learns no identities.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saylorsolutions/sealdrop/pkg/locator"
	"github.com/saylorsolutions/sealdrop/pkg/sealbox"
)

var blobName = regexp.MustCompile(`^[0-9A-F]{64}` + regexp.QuoteMeta(locator.Extension) + `$`)

// Host serves the blobs published into one directory.
type Host struct {
	dir      string
	log      *slog.Logger
	registry *prometheus.Registry
	metrics  *Metrics
}

type Option = func(*Host) error

// WithLogger attaches a logger for request events. Without this option the
// Host is silent.
func WithLogger(log *slog.Logger) Option {
	return func(h *Host) error {
		if log == nil {
			return errors.New("cannot use a nil logger")
		}
		h.log = log
		return nil
	}
}

// New creates a Host serving blobs from dir.
func New(dir string, opts ...Option) (*Host, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot host %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot host %s: not a directory", dir)
	}
	registry := prometheus.NewRegistry()
	h := &Host{
		dir:      dir,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		registry: registry,
		metrics:  NewMetrics(registry),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Router returns the HTTP surface of the Host: blob retrieval, a health
// probe, and Prometheus metrics.
func (h *Host) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestID)
	r.Use(h.logRequests)
	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))
	r.Get("/{name}", h.handleBlob)
	return r
}

type requestIDKey struct{}

func (h *Host) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

func (h *Host) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.InfoContext(r.Context(), "request",
			"request_id", requestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
		)
	})
}

func (h *Host) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (h *Host) handleBlob(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")
	if name != sealbox.ParamsName && !blobName.MatchString(name) {
		h.metrics.ObserveRequest("rejected", time.Since(start))
		http.NotFound(w, r)
		return
	}
	f, err := os.Open(filepath.Join(h.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.metrics.ObserveRequest("missing", time.Since(start))
			http.NotFound(w, r)
			return
		}
		h.metrics.ObserveRequest("failed", time.Since(start))
		h.log.ErrorContext(r.Context(), "failed to open blob",
			"request_id", requestID(r.Context()),
			"name", name,
			"error", err,
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer func() {
		_ = f.Close()
	}()
	info, err := f.Stat()
	if err != nil {
		h.metrics.ObserveRequest("failed", time.Since(start))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = io.Copy(w, f)
	h.metrics.ObserveRequest("served", time.Since(start))
}

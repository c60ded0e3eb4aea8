package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/osse101/CodeLedger_Go/docs"
	"github.com/osse101/CodeLedger_Go/internal/database"
	"github.com/osse101/CodeLedger_Go/internal/handler"
	"github.com/osse101/CodeLedger_Go/internal/logger"
	"github.com/osse101/CodeLedger_Go/internal/metrics"
)

// Options carries the transport settings of the HTTP server
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	MaxBodyBytes   int64
	ServiceName    string
	Version        string

	// CORSAllowedOrigins enables CORS for the listed origins; empty disables it
	CORSAllowedOrigins []string
	// SyncRateLimit caps sync and sweep requests per caller within SyncRateWindow; zero disables it
	SyncRateLimit  int
	SyncRateWindow time.Duration
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance.
// dbPool may be nil when the memory storage backend is in use; readiness then always succeeds.
func NewServer(opts Options, dbPool database.Pool, platforms *handler.PlatformHandlers, admin *handler.AdminHandlers) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, dbPool, platforms, admin),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the route tree with the full middleware stack
func NewRouter(opts Options, dbPool database.Pool, platforms *handler.PlatformHandlers, admin *handler.AdminHandlers) http.Handler {
	r := chi.NewRouter()

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	detector := NewSuspiciousActivityDetector()
	syncLimit := callerRateLimit(opts.SyncRateLimit, opts.SyncRateWindow)

	// Outermost first
	r.Use(SecurityHeadersMiddleware())
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(corsMiddleware(opts.CORSAllowedOrigins))
	}
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(maxBody))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))
	r.Get("/version", handler.HandleVersion(opts.ServiceName, opts.Version))
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/platforms", func(r chi.Router) {
			r.Get("/", platforms.HandleListPlatforms())
			r.Get("/links", platforms.HandleListLinks())

			r.Route("/{platform}", func(r chi.Router) {
				r.Delete("/", platforms.HandleDisconnect())
				r.With(syncLimit).Post("/sync", platforms.HandleSyncOne())

				r.Route("/verification", func(r chi.Router) {
					r.Post("/", platforms.HandleInitiate())
					r.Delete("/", platforms.HandleCancel())
					r.Post("/confirm", platforms.HandleConfirm())
				})
			})
		})

		r.With(syncLimit).Post("/sync", platforms.HandleSyncAll())
		r.Get("/stats", platforms.HandleGetStats())

		r.Route("/admin", func(r chi.Router) {
			r.With(syncLimit).Post("/sweep", admin.HandleTriggerSweep())
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

func isProbePath(path string) bool {
	for _, prefix := range probePathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// loggingMiddleware tags the request context with a request id and logs start and completion
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isProbePath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())
		log.Debug(LogMsgRequestHeaders, "headers", redactHeaders(r.Header))

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", duration.Milliseconds())
	})
}

func redactHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
			out[k] = []string{RedactedValue}
			continue
		}
		out[k] = v
	}
	return out
}

// Start starts the server and blocks until it stops.
// http.ErrServerClosed after Stop is not reported as an error.
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

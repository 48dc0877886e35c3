package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path"
	"time"

	"github.com/nao1215/stressband/internal/config"
	"github.com/nao1215/stressband/internal/model"
	"golang.org/x/net/netutil"
)

// ReportGenerator renders the PDF report of a band.
type ReportGenerator interface {
	Generate(ctx context.Context, id model.BandID, baseURL string) ([]byte, error)
}

// Server serves the report endpoints.
type Server struct {
	generator ReportGenerator
	profiles  model.ProfileSource
	logger    *slog.Logger

	policy          config.IDPolicy
	publicBaseURL   string
	logoPath        string
	logo            []byte
	maxConnections  int
	shutdownTimeout time.Duration

	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithIDPolicy sets the identifier resolution policy.
func WithIDPolicy(p config.IDPolicy) Option {
	return func(s *Server) {
		s.policy = p
	}
}

// WithPublicBaseURL fixes the base URL handed to the generator instead of
// deriving it from each request.
func WithPublicBaseURL(u string) Option {
	return func(s *Server) {
		s.publicBaseURL = u
	}
}

// WithLogo replaces the embedded logo served at logoPath.
// A path without a leading slash is rooted.
func WithLogo(logoPath string, png []byte) Option {
	return func(s *Server) {
		if logoPath != "" {
			s.logoPath = path.Join("/", logoPath)
		}
		if len(png) > 0 {
			s.logo = png
		}
	}
}

// WithMaxConnections caps the number of concurrent connections.
func WithMaxConnections(n int) Option {
	return func(s *Server) {
		s.maxConnections = n
	}
}

// WithShutdownTimeout bounds the graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// New creates a Server.
func New(generator ReportGenerator, profiles model.ProfileSource, opts ...Option) (*Server, error) {
	if generator == nil {
		return nil, ErrMissingGenerator
	}
	if profiles == nil {
		profiles = model.NewFixtureSource()
	}

	s := &Server{
		generator:       generator,
		profiles:        profiles,
		policy:          config.PolicyMock,
		logoPath:        config.DefaultLogoPath,
		logo:            LogoPNG,
		shutdownTimeout: config.DefaultShutdownTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.handler = s.newRouter()
	return s, nil
}

// Handler returns the HTTP handler of s.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the shutdown timeout. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.maxConnections > 0 {
		ln = netutil.LimitListener(ln, s.maxConnections)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("server started",
		"addr", ln.Addr().String(),
		"id_policy", string(s.policy),
		"max_connections", s.maxConnections,
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

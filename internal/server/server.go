// Package server exposes the registration forms over HTTP. Browsers drive a
// server-side form instance per session with plain form posts; API clients
// use the stateless JSON endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-regforms/components/countries"
	"github.com/goliatone/go-regforms/internal/config"
	"github.com/goliatone/go-regforms/internal/metrics"
	"github.com/goliatone/go-regforms/pkg/form"
	pkgopenapi "github.com/goliatone/go-regforms/pkg/openapi"
	"github.com/goliatone/go-regforms/pkg/orchestrator"
	"github.com/goliatone/go-regforms/pkg/renderers/vanilla"
	"github.com/goliatone/go-regforms/pkg/sanitize"
	"github.com/goliatone/go-regforms/pkg/schemaexport"
)

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request and submission logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records request and submission metrics and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithOrchestrator replaces the pipeline used to render forms.
func WithOrchestrator(orch *orchestrator.Orchestrator) Option {
	return func(s *Server) {
		s.orch = orch
	}
}

// WithSubmitter receives every accepted draft. Defaults to logging the
// redacted draft.
func WithSubmitter(submitter form.Submitter) Option {
	return func(s *Server) {
		s.submitter = submitter
	}
}

// WithFormOptions appends options applied to every form instance.
func WithFormOptions(options ...form.Option) Option {
	return func(s *Server) {
		s.formOptions = append(s.formOptions, options...)
	}
}

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// Server serves the registration forms.
type Server struct {
	cfg         config.Config
	logger      *zap.Logger
	metrics     *metrics.Metrics
	orch        *orchestrator.Orchestrator
	index       *vanilla.Renderer
	exporter    *schemaexport.Exporter
	countries   *countries.Component
	submitter   form.Submitter
	formOptions []form.Option
	now         func() time.Time

	sessions *sessionStore
	handler  http.Handler
}

// New builds a server from cfg. Presets named by the configuration are
// loaded eagerly so a broken document fails at startup.
func New(cfg config.Config, options ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		logger:    zap.NewNop(),
		exporter:  schemaexport.New(),
		countries: countries.New(),
		now:       time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.orch == nil {
		options, err := OrchestratorOptions(cfg, s.logger)
		if err != nil {
			return nil, err
		}
		s.orch = orchestrator.New(options...)
	}

	index, err := vanilla.New(vanilla.WithTemplatesDir(cfg.Forms.Templates))
	if err != nil {
		return nil, fmt.Errorf("server: index renderer: %w", err)
	}
	s.index = index

	if s.submitter == nil {
		s.submitter = form.LogSubmitter(s.logger)
	}
	s.formOptions = append([]form.Option{
		form.WithLogger(s.logger),
		form.WithMessages(cfg.Forms.Messages),
		form.WithSanitizer(sanitize.Text),
		form.WithSubmitter(s.submitter),
	}, s.formOptions...)

	s.sessions = newSessionStore(cfg.Server.SessionTTL, s.now)
	s.handler = s.routes()
	return s, nil
}

// OrchestratorOptions translates the forms configuration into pipeline
// options. Presets are loaded eagerly so a broken file fails at startup.
func OrchestratorOptions(cfg config.Config, logger *zap.Logger) ([]orchestrator.Option, error) {
	options := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithThemeName(cfg.Forms.Theme),
		orchestrator.WithRendererOptions(vanilla.WithTemplatesDir(cfg.Forms.Templates)),
	}
	if cfg.Forms.Document != "" {
		options = append(options, orchestrator.WithSource(pkgopenapi.SourceFromFile(cfg.Forms.Document)))
	}
	if cfg.Forms.Presets != "" {
		presets, err := orchestrator.NewPresetTransformerFromFile(cfg.Forms.Presets)
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		options = append(options, orchestrator.WithSchemaTransformer(presets))
	}
	return options, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// within the configured grace period. Idle sessions are pruned meanwhile.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		s.sessions.run(janitorCtx, s.pruneInterval(), func(remaining int) {
			s.metrics.SetSessions(remaining)
		})
	}()
	defer func() {
		stopJanitor()
		<-janitorDone
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: serve: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) pruneInterval() time.Duration {
	interval := s.cfg.Server.SessionTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

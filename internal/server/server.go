// Package server implements the factory dashboard HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/dyluth/factorydash/internal/bot"
	"github.com/dyluth/factorydash/internal/config"
	"github.com/dyluth/factorydash/internal/factory"
	"github.com/dyluth/factorydash/pkg/factoryapi"
	"go.uber.org/zap"
)

// ShutdownTimeout bounds graceful shutdown once the run context is done.
const ShutdownTimeout = 5 * time.Second

// publishTimeout bounds a single feed publish so a slow Redis never holds
// up an API response.
const publishTimeout = 250 * time.Millisecond

// Publisher receives activity for the live feed.
type Publisher interface {
	Ping(ctx context.Context) error
	PublishMetrics(ctx context.Context, m factoryapi.Metrics) error
	PublishBotExchange(ctx context.Context, question string, reply factoryapi.BotResponse) error
}

// Server serves the factory API, the health probe and the frontend bundle.
type Server struct {
	cfg      config.ServerConfig
	gen      factory.Generator
	bot      *bot.Bot
	feed     Publisher
	frontend fs.FS
	logger   *zap.Logger
	handler  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithFeed publishes generated metrics and bot exchanges to p.
func WithFeed(p Publisher) Option {
	return func(s *Server) { s.feed = p }
}

// WithFrontend serves fsys for non-API GET requests.
func WithFrontend(fsys fs.FS) Option {
	return func(s *Server) { s.frontend = fsys }
}

// New creates a server answering from gen and b.
func New(cfg config.ServerConfig, gen factory.Generator, b *bot.Bot, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		gen:    gen,
		bot:    b,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/factory/metrics", s.handleMetrics)
	mux.HandleFunc("GET /api/factory/status", s.handleStatus)
	mux.HandleFunc("GET /api/factory/machine-types", s.handleMachineTypes)
	mux.HandleFunc("GET /api/factory/batch-quality", s.handleBatchQuality)
	mux.HandleFunc("GET /api/factory/energy-metrics", s.handleEnergyMetrics)
	mux.HandleFunc("POST /api/factory/bot", s.handleBot)
	mux.HandleFunc("POST /api/factory/bot/message", s.handleBot)
	mux.HandleFunc("GET /api/", s.handleAPINotFound)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /", s.handleFrontend)

	return s.logRequests(cors(mux))
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	s.logger.Info("Server listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	<-errCh
	return nil
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

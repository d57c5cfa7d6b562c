package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Adda-Baaj/nbdev/internal/config"
	"github.com/Adda-Baaj/nbdev/internal/logger"
	"github.com/Adda-Baaj/nbdev/internal/web"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Server is the web front-end runtime. It owns the NationBuilder client, the
// activity publishers and the HTTP listener.
type Server struct {
	cfg         *config.Config
	httpServer  *http.Server
	closeClient func() error
	log         logger.Logger
}

// NewServer builds the web runtime from config.
func NewServer(ctx context.Context, cfg *config.Config, log logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	client, closeClient, err := OpenClient(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open nationbuilder client: %w", err)
	}

	router, err := web.NewRouter(client, log)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("build router: %w", err), closeClient())
	}

	return &Server{
		cfg: cfg,
		httpServer: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		closeClient: closeClient,
		log:         log,
	}, nil
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return fmt.Errorf("server is not initialized")
	}
	defer s.close()

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.log.InfoObj("web server listening", "server_state", map[string]any{
		"addr": ln.Addr().String(),
		"mock": s.cfg.Mock,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		s.log.InfoObj("web server shutting down", "reason", ctx.Err().Error())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// close releases client resources, logging any errors encountered.
func (s *Server) close() {
	if s.closeClient == nil {
		return
	}
	if err := s.closeClient(); err != nil {
		s.log.ErrorObj("client close failed", "error", err.Error())
	}
}

// Package webapi exposes the action controller to a browser front end.
//
// Routes:
//
//	GET  /api/state          view state snapshot
//	POST /api/actions/:kind  run one action, body is the kind's payload
//	POST /api/logout         end the session
//	POST /auth               OAuth form_post callback carrying id_token
//	GET  /api/events         websocket stream of toasts and state snapshots
package webapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/tos-network/redenvelope/flow"
	"github.com/tos-network/redenvelope/internal/log"
	"github.com/tos-network/redenvelope/toast"
	"golang.org/x/sync/errgroup"
)

const (
	maxBodySize     = 1 << 20
	shutdownTimeout = 5 * time.Second
	readHeaderLimit = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Listen      string
	CorsOrigins []string
	// AfterLogin is where the OAuth callback redirects the browser.
	AfterLogin string
}

// Server serves the web API.
type Server struct {
	cfg      Config
	ctrl     *flow.Controller
	hub      *toast.Hub
	router   *httprouter.Router
	upgrader websocket.Upgrader
	log      log.Logger
}

// New creates a server for ctrl. hub must receive the controller's toasts for
// the event stream to carry them.
func New(cfg Config, ctrl *flow.Controller, hub *toast.Hub) *Server {
	if cfg.AfterLogin == "" {
		cfg.AfterLogin = "/"
	}
	s := &Server{
		cfg:    cfg,
		ctrl:   ctrl,
		hub:    hub,
		router: httprouter.New(),
		log:    log.New("component", "webapi"),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/api/state", s.handleState)
	s.router.POST("/api/actions/:kind", s.handleAction)
	s.router.POST("/api/logout", s.handleLogout)
	s.router.POST("/auth", s.handleAuthCallback)
	s.router.GET("/api/events", s.handleEvents)
}

// Handler returns the router wrapped in the CORS policy.
func (s *Server) Handler() http.Handler {
	return newCorsHandler(s.router, s.cfg.CorsOrigins)
}

func newCorsHandler(srv http.Handler, allowedOrigins []string) http.Handler {
	// disable CORS support if user has not specified a custom CORS configuration
	if len(allowedOrigins) == 0 {
		return srv
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	return c.Handler(srv)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.CorsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// ListenAndServe serves on cfg.Listen until ctx is cancelled, then shuts the
// server down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderLimit,
		// Event streams outlive Shutdown and watch the request context.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}
	g.Go(func() error {
		s.log.Info("HTTP server started", "endpoint", "http://"+ln.Addr().String(), "cors", s.cfg.CorsOrigins)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.log.Info("HTTP server stopped", "endpoint", ln.Addr().String())
		return err
	})
	return g.Wait()
}

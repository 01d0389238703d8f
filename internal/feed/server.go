// Package feed serves the live timer display to external clients: a JSON
// state endpoint and a read-only websocket stream of timer and dashboard
// updates.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/SeamusWaldron/cubetrainer"
	"github.com/SeamusWaldron/cubetrainer/internal/session"
)

// RecentLimit is the number of solves included in a state response.
const RecentLimit = 10

// Options configures a Server.
type Options struct {
	Addr           string
	AllowedOrigins []string
	Hub            HubConfig
	Logger         zerolog.Logger
}

// Server publishes a Controller's state over HTTP.
type Server struct {
	ctrl     *session.Controller
	opts     Options
	hub      *Hub
	cors     *cors.Cors
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewServer creates a server for ctrl. Call Attach to start forwarding
// updates, and Run or ListenAndServe to serve.
func NewServer(ctrl *session.Controller, opts Options) *Server {
	if opts.Hub == (HubConfig{}) {
		opts.Hub = DefaultHubConfig()
	}
	logger := opts.Logger.With().Str("component", "feed").Logger()

	s := &Server{
		ctrl:   ctrl,
		opts:   opts,
		hub:    NewHub(opts.Hub, logger),
		logger: logger,
		cors: cors.New(cors.Options{
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedOrigins: opts.AllowedOrigins,
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Hub returns the server's broadcast hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Attach subscribes the hub to the timer and controller. Elapsed events
// are forwarded too so displays can follow the running clock. The returned
// function detaches both subscriptions.
func (s *Server) Attach() (detach func()) {
	unsubTimer := s.ctrl.Timer().Subscribe(func(ev cubetrainer.Event) {
		if ev.Kind == cubetrainer.EventSolve {
			return
		}
		view := viewFromEvent(ev)
		s.hub.Broadcast(Message{Type: TypeTimer, Timer: &view})
	})
	unsubCtrl := s.ctrl.Subscribe(func(u session.Update) {
		dash := u.Dashboard
		s.hub.Broadcast(Message{Type: TypeDashboard, Dashboard: &dash, Solve: u.Solve, Reset: u.Reset})
	})
	return func() {
		unsubTimer()
		unsubCtrl()
	}
}

// Handler returns the HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return s.cors.Handler(mux)
}

// State builds the current full state.
func (s *Server) State() State {
	recent := s.ctrl.Recent(RecentLimit)
	if recent == nil {
		recent = []cubetrainer.SolveRecord{}
	}
	return State{
		Session:   s.ctrl.Timer().SessionID(),
		Timer:     viewFromSnapshot(s.ctrl.Timer().Snapshot()),
		Dashboard: s.ctrl.Dashboard(),
		Recent:    recent,
		Progress:  s.ctrl.Progress(),
	}
}

// Run serves on l until ctx is cancelled.
func (s *Server) Run(ctx context.Context, l net.Listener) error {
	detach := s.Attach()
	defer detach()

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	srv := &http.Server{
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", l.Addr().String()).Msg("feed server listening")
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("feed server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("feed server shutdown: %w", err)
	}
	s.logger.Info().Msg("feed server stopped")
	return nil
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("feed listen %s: %w", s.opts.Addr, err)
	}
	return s.Run(ctx, l)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.State())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	state := s.State()
	first, err := json.Marshal(struct {
		Type string `json:"type"`
		State
	}{TypeSnapshot, state})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal snapshot")
		conn.Close()
		return
	}
	s.hub.attach(conn, first)
}

// checkOrigin accepts non-browser clients, which send no Origin header,
// and browser clients whose origin passes the CORS policy.
func (s *Server) checkOrigin(r *http.Request) bool {
	if r.Header.Get("Origin") == "" {
		return true
	}
	return s.cors.OriginAllowed(r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

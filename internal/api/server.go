package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mockhub/mockhub/internal/config"
	"github.com/mockhub/mockhub/internal/dispatcher"
	"github.com/mockhub/mockhub/internal/registry"
	"github.com/mockhub/mockhub/internal/storage"
)

type Server struct {
	cfg        config.ServerConfig
	cors       config.CORSConfig
	store      storage.Storage
	registry   *registry.Registry
	dispatcher *dispatcher.Dispatcher
	router     *chi.Mux
	log        zerolog.Logger
	http       *http.Server
}

func NewServer(cfg config.ServerConfig, cors config.CORSConfig, store storage.Storage, log zerolog.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		cors:       cors,
		store:      store,
		registry:   registry.New(store, log),
		dispatcher: dispatcher.New(store, log),
		log:        log,
	}
	s.router = s.buildRouter()
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(s.log))
	if s.cors.Enabled {
		r.Use(CORSMiddleware(s.cors.AllowedOrigin))
	}

	epHandler := NewEndpointHandler(s.registry)
	userHandler := NewUserHandler(s.store)
	mockHandler := NewMockHandler(s.dispatcher)
	statsHandler := NewStatsHandler(s.store)

	// Management routes register first; the dispatcher only sees paths no
	// management route claims.
	r.Get("/health", statsHandler.Health)
	r.Get("/stats", statsHandler.Stats)

	r.Get("/endpoints", epHandler.List)
	r.Post("/create-mock", epHandler.Create)
	r.Put("/update-mock/{id}", epHandler.Update)
	r.Delete("/delete-mock/{id}", epHandler.Delete)

	r.Post("/users", userHandler.Upsert)
	r.Get("/users/{uid}", userHandler.Get)

	// Every other path replays a stored mock, regardless of method.
	r.NotFound(mockHandler.Serve)
	r.MethodNotAllowed(mockHandler.Serve)

	return r
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.log.Info().Str("addr", addr).Msg("starting HTTP server")
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// Package server exposes the answering pipeline over HTTP: REST endpoints
// for grounded question answering, free-form chat, and multimodal image
// questions, plus a WebSocket chat channel.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"docqa/internal/llm"
	"docqa/internal/rag"
	"docqa/internal/vision"
)

// Answerer is the grounded/fallback answering pipeline.
type Answerer interface {
	Answer(ctx context.Context, query string) (rag.Outcome, error)
}

// Describer is the best-effort multimodal pipeline. It always returns a
// string, degraded diagnostics included.
type Describer interface {
	Describe(ctx context.Context, req vision.DescribeRequest) string
}

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server wires the answering engine, chat provider, and vision client into
// an HTTP surface.
type Server struct {
	cfg      Config
	engine   Answerer
	provider llm.Provider
	model    string
	vision   Describer

	router     chi.Router
	httpServer *http.Server

	mu       sync.Mutex
	sessions map[string][]llm.Message
}

// New creates a server with all dependencies injected. Any of engine,
// provider, or vision may be nil; the matching endpoints then report the
// feature as unconfigured.
func New(cfg Config, engine Answerer, provider llm.Provider, model string, vis Describer) *Server {
	s := &Server{
		cfg:      cfg,
		engine:   engine,
		provider: provider,
		model:    model,
		vision:   vis,
		sessions: make(map[string][]llm.Message),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/api/ask", s.handleAsk)
	r.Post("/api/chat", s.handleChat)
	r.Post("/api/vision", s.handleVision)
	r.Get("/api/ws", s.handleWebSocket)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		// The vision path may spend several minutes in its retry
		// loop; write timeouts must outlast it.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("docqa server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Package server wires middleware, handlers, and routes into an http.Server.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adityashravan/spendsavvy/internal/assistant"
	"github.com/adityashravan/spendsavvy/internal/auth"
	"github.com/adityashravan/spendsavvy/internal/config"
	"github.com/adityashravan/spendsavvy/internal/handlers"
	"github.com/adityashravan/spendsavvy/internal/ledger"
	"github.com/adityashravan/spendsavvy/internal/middleware"
	"github.com/adityashravan/spendsavvy/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) *Server {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	svc := ledger.New(store)

	var parser assistant.Parser
	if cfg.ParserURL != "" {
		parser = assistant.NewClient(cfg.ParserURL)
	}

	// Protected routes live on their own mux behind the auth middleware.
	api := http.NewServeMux()
	handlers.NewExpenseHandler(svc).Register(api)
	handlers.NewBalanceHandler(svc).Register(api)
	handlers.NewFriendHandler(svc).Register(api)
	handlers.NewGroupHandler(svc).Register(api)
	handlers.NewNotificationHandler(store).Register(api)
	handlers.NewAnalyticsHandler(svc).Register(api)
	handlers.NewAssistantHandler(parser).Register(api)

	mux := http.NewServeMux()
	handlers.NewAuthHandler(authenticator, jwtManager).Register(mux)
	handlers.NewHealthHandler(time.Now()).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/api/", middleware.RequireAuth(jwtManager, api))

	handler := middleware.Metrics(middleware.Logging(middleware.CORS(mux)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}

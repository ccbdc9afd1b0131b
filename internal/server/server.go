package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Tsaleem123/game-inventory-backend/internal/auth"
	"github.com/Tsaleem123/game-inventory-backend/internal/handler"
	"github.com/Tsaleem123/game-inventory-backend/internal/middleware"
)

const requestTimeout = 60 * time.Second

// Handlers groups the HTTP handlers mounted on the router.
type Handlers struct {
	Auth          *handler.AuthHandler
	PasswordReset *handler.PasswordResetHandler
	Library       *handler.LibraryHandler
	Catalog       *handler.CatalogHandler
}

// NewRouter builds the router with the middleware stack and route table.
func NewRouter(handlers Handlers, tokenIssuer *auth.TokenIssuer, logger *zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handlers.Auth.Register)
			r.Get("/confirm-email", handlers.Auth.ConfirmEmail)
			r.Post("/login", handlers.Auth.Login)
			r.Post("/forgot-password", handlers.PasswordReset.ForgotPassword)
			r.Get("/reset-password", handlers.PasswordReset.RedirectReset)
			r.Post("/reset-password", handlers.PasswordReset.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokenIssuer))

			r.Get("/games/search", handlers.Catalog.SearchGames)

			r.Route("/library", func(r chi.Router) {
				r.Get("/", handlers.Library.ListGames)
				r.Post("/", handlers.Library.AddGame)
				r.Patch("/{id}", handlers.Library.UpdateGame)
				r.Delete("/{id}", handlers.Library.RemoveGame)
			})
		})
	})

	return r
}

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer *http.Server
	logger     *zerolog.Logger
}

// New creates a Server listening on addr.
func New(addr string, router http.Handler, logger *zerolog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start serves requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops accepting new requests and drains in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

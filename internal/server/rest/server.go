// Package rest exposes the linkshare services as a JSON HTTP API.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/logging"
	"github.com/dmitrijs2005/linkshare/internal/server/auth"
	"github.com/dmitrijs2005/linkshare/internal/server/config"
	"github.com/dmitrijs2005/linkshare/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

type HTTPServer struct {
	address         string
	allowedOrigins  []string
	rateLimit       int
	rateLimitWindow time.Duration
	shutdownTimeout time.Duration

	users    *services.UserService
	articles *services.ArticleService
	tokens   *auth.TokenService
	logger   logging.Logger
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, us *services.UserService, as *services.ArticleService, ts *auth.TokenService) *HTTPServer {
	return &HTTPServer{
		address:         cfg.EndpointAddrHTTP,
		allowedOrigins:  cfg.AllowedOrigins,
		rateLimit:       cfg.RateLimit,
		rateLimitWindow: cfg.RateLimitWindow,
		shutdownTimeout: cfg.ShutdownTimeout,
		users:           us,
		articles:        as,
		tokens:          ts,
		logger:          l.With("module", "http_server"),
	}
}

// Handler returns the full middleware chain and route table.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(
		middleware.SetHeader("X-Content-Type-Options", "nosniff"),
		middleware.SetHeader("X-Frame-Options", "SAMEORIGIN"),
		middleware.SetHeader("Referrer-Policy", "no-referrer"),
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if s.rateLimit > 0 {
		r.Use(httprate.Limit(s.rateLimit, s.rateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusTooManyRequests, MsgTooManyRequests)
			}),
		))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
	})

	authenticate := Authenticate(s.tokens, s.logger)

	r.Get("/api/health", s.health)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)
		r.With(authenticate).Get("/me", s.me)
	})

	r.Route("/api/articles", func(r chi.Router) {
		r.Get("/", s.listArticles)
		r.With(authenticate).Post("/", s.createArticle)
		r.With(authenticate).Delete("/{id}", s.deleteArticle)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authenticate, RequireAdmin)
		r.Get("/users", s.listUsers)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully, giving
// in-flight requests up to the configured shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}

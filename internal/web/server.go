package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/playercards/internal/domain"
)

// PlayerStore is the persistence the HTTP handlers depend on.
type PlayerStore interface {
	ListPlayers(ctx context.Context) ([]domain.Player, error)
	FindPlayer(ctx context.Context, id int64) (domain.Player, error)
	CardsForPlayer(ctx context.Context, playerID int64) ([]domain.Card, error)
	InsertPlayerWithCards(ctx context.Context, name string, cards []domain.Card) (domain.Player, error)
}

// Options configures the router middleware.
type Options struct {
	// CORSOrigins lists the allowed browser origins; "*" allows any.
	CORSOrigins []string
	// RateLimit is the number of requests per minute allowed per client IP.
	// Zero disables rate limiting.
	RateLimit int
	// Debug mounts the profiler under /debug.
	Debug  bool
	Logger *slog.Logger
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	db       PlayerStore
	router   *chi.Mux
	validate *validator.Validate
	logger   *slog.Logger
}

// NewServer creates and configures a new server.
func NewServer(db PlayerStore, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		db:       db,
		router:   chi.NewRouter(),
		validate: newValidator(),
		logger:   logger,
	}
	s.middleware(opts)
	s.routes(opts.Debug)
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) middleware(opts Options) {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match"},
		ExposedHeaders: []string{"ETag"},
		MaxAge:         300,
	}))
	if opts.RateLimit > 0 {
		s.router.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
	}
}

// routes sets up the routing for the server.
func (s *Server) routes(debug bool) {
	s.router.Get("/", s.handleRoot())
	s.router.Get("/players", s.handleListPlayers())
	s.router.Get("/players/{id}", s.handleGetPlayer())
	s.router.Post("/player", s.handleCreatePlayer())

	if debug {
		s.router.Mount("/debug", middleware.Profiler())
	}
}

// requestLogger logs one line per request once the response is written.
func requestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"remote", r.RemoteAddr,
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the part of intake.Engine the server drives.
type Engine interface {
	Questions() []domain.Question
	Start(ctx context.Context, sessionID string) (*domain.State, error)
	Refresh(state *domain.State) (*domain.State, error)
	Record(ctx context.Context, state *domain.State, questionID string, answer domain.Answer) (*domain.State, error)
	Select(ctx context.Context, state *domain.State, questionID, value string) (*domain.State, error)
	Deselect(ctx context.Context, state *domain.State, questionID, value string) (*domain.State, error)
	Submit(ctx context.Context, state *domain.State) (*domain.State, domain.Payload, error)
	Next(state *domain.State, fromID string) (domain.Question, bool, error)
	Previous(state *domain.State, fromID string) (domain.Question, bool, error)
	CanProceed(state *domain.State, questionID string) (bool, error)
	View(state *domain.State) (*domain.View, error)
}

// Server holds the HTTP handlers.
type Server struct {
	Engine    Engine
	Sessions  *session.Manager
	Streams   *StreamManager
	Submitter ports.OrderSubmitter

	name           string
	logger         *slog.Logger
	gatherer       prometheus.Gatherer
	allowedOrigins []string
	timeout        time.Duration
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithSubmitter forwards submitted questionnaires as orders.
func WithSubmitter(sub ports.OrderSubmitter) Option {
	return func(s *Server) {
		s.Submitter = sub
	}
}

// WithMetrics serves the gatherer's metrics at /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithAllowedOrigins sets the CORS origins allowed to embed the questionnaire.
// Defaults to any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithRequestTimeout bounds non-streaming requests. Defaults to 15s.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// WithName labels the questionnaire served at /questionnaire.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// NewServer creates a Server over engine and sessions.
func NewServer(engine Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:         engine,
		Sessions:       sessions,
		logger:         logging.NewNop(),
		allowedOrigins: []string{"*"},
		timeout:        15 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for engine with sessions persisted through sessions.
func NewHandler(engine Engine, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	timeout := middleware.Timeout(s.timeout)

	r.With(timeout).Get("/questionnaire", s.GetQuestionnaire)
	r.Route("/sessions", func(r chi.Router) {
		r.With(timeout).Get("/", s.ListSessions)
		r.With(timeout).Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			// The event stream is long-lived and stays outside the request timeout.
			r.Get("/events", s.SubscribeEvents)

			r.Group(func(r chi.Router) {
				r.Use(timeout)
				r.Get("/", s.GetSession)
				r.Delete("/", s.DeleteSession)
				r.Put("/answers/{qid}", s.RecordAnswer)
				r.Post("/answers/{qid}/select", s.SelectOption)
				r.Post("/answers/{qid}/deselect", s.DeselectOption)
				r.Get("/navigation", s.GetNavigation)
				r.Post("/submit", s.Submit)
			})
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// Package server wires the gallery's HTTP surface.
package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vidgallery/vidgallery/internal/auth"
	"github.com/vidgallery/vidgallery/internal/database"
	"github.com/vidgallery/vidgallery/internal/docs"
	"github.com/vidgallery/vidgallery/internal/ratelimit"
	"github.com/vidgallery/vidgallery/internal/session"
	"github.com/vidgallery/vidgallery/internal/video"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type RateLimits struct {
	LoginPerSecond float64
	LoginBurst     int
	APIPerSecond   float64
	APIBurst       int
}

func DefaultRateLimits() RateLimits {
	return RateLimits{LoginPerSecond: 0.2, LoginBurst: 5, APIPerSecond: 5, APIBurst: 20}
}

type Config struct {
	// DB backs the identity provider. Without it the auth routes are not
	// registered and every visitor is anonymous.
	DB        database.DBTX
	Pingers   []Pinger
	Store     video.Store
	Resolver  video.ThumbnailResolver
	JWTSecret string
	AdminID   string
	BaseURL   string

	FrameAncestors string
	RateLimits     RateLimits
	MetricsEnabled bool
	DocsEnabled    bool
}

type Server struct {
	router       chi.Router
	pingers      []Pinger
	authHandler  *auth.Handler
	videoHandler *video.Handler
	adminID      string
	limits       RateLimits
	metrics      bool
	docs         bool
}

func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(slogMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders(SecurityConfig{
		BaseURL:        cfg.BaseURL,
		FrameAncestors: cfg.FrameAncestors,
	}))

	limits := cfg.RateLimits
	if limits == (RateLimits{}) {
		limits = DefaultRateLimits()
	}

	s := &Server{
		router:  r,
		pingers: cfg.Pingers,
		adminID: cfg.AdminID,
		limits:  limits,
		metrics: cfg.MetricsEnabled,
		docs:    cfg.DocsEnabled,
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	if cfg.DB != nil && cfg.JWTSecret != "" {
		secureCookies := strings.HasPrefix(baseURL, "https://")
		s.authHandler = auth.NewHandler(cfg.DB, cfg.JWTSecret, cfg.AdminID, secureCookies)
	}
	if cfg.Store != nil && cfg.Resolver != nil {
		s.videoHandler = video.NewHandler(cfg.Store, cfg.Resolver, baseURL)
	}

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// sessionMiddleware gives every request its own gate, restored from the
// request's tokens when the identity provider is configured.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	if s.authHandler != nil {
		return s.authHandler.Middleware(next)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := session.WithGate(r.Context(), session.NewGate(s.adminID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	if s.metrics {
		s.router.Handle("/metrics", promhttp.Handler())
	}
	if s.docs {
		s.router.Get("/api/docs/openapi.yaml", docs.HandleSpec)
	}

	static := newStaticFileServer()
	s.router.Get("/static/*", static.ServeHTTP)
	s.router.Get("/robots.txt", static.ServeHTTP)

	apiLimiter := ratelimit.NewLimiter(s.limits.APIPerSecond, s.limits.APIBurst, "")

	s.router.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		if s.authHandler != nil {
			loginLimiter := ratelimit.NewLimiter(s.limits.LoginPerSecond, s.limits.LoginBurst, auth.MsgTooManyAttempts)
			r.With(loginLimiter.Middleware).Post("/api/auth/login", s.authHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(apiLimiter.Middleware)
				r.Post("/api/auth/refresh", s.authHandler.Refresh)
				r.Post("/api/auth/logout", s.authHandler.Logout)
				r.Get("/api/auth/session", s.authHandler.Session)
			})
		}

		if s.videoHandler != nil {
			r.Get("/", s.videoHandler.GalleryPage)
			r.Get("/watch/{id}", s.videoHandler.WatchPage)
			r.Group(func(r chi.Router) {
				r.Use(apiLimiter.Middleware)
				r.Get("/thumbnails/{id}", s.videoHandler.Thumbnail)
				r.Get("/api/thumbnails/{id}", s.videoHandler.ThumbnailJSON)
				r.Get("/api/videos", s.videoHandler.List)
				r.Post("/api/videos", s.videoHandler.Create)
				r.Delete("/api/videos/{id}", s.videoHandler.Delete)
			})
		}
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	for _, p := range s.pingers {
		if err := p.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy","error":"backend unreachable"}`))
			return
		}
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

package http

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/shadymh10/depi-graduation/internal/config"
	"github.com/shadymh10/depi-graduation/internal/metrics"
	"github.com/shadymh10/depi-graduation/internal/models"
)

// URLService defines the business operations the handlers orchestrate.
type URLService interface {
	ShortenURL(ctx context.Context, originalURL, customCode string, daysValid int) (*models.URL, error)
	ResolveShortCode(ctx context.Context, shortCode string) (*models.URL, error)
	GetURLStats(ctx context.Context, shortCode string) (*models.URL, error)
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	CleanupExpired(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// recoverer turns a handler panic into the generic JSON 500 and counts it,
// keeping the failure isolated to the request.
func recoverer(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	const op = "api.http.recoverer"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error(
						"panic recovered",
						slog.Group(op, slog.Any("err", rec)),
					)

					m.Errors.WithLabelValues("500").Inc()
					render.Status(r, http.StatusInternalServerError)
					render.JSON(w, r, errorResponse{Error: "Internal server error"})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// NewRouter wires every endpoint. Any single path segment that matches no
// other route is treated as a short code lookup.
func NewRouter(logger *httplog.Logger, cfg *config.Config, urlSvc URLService, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(recoverer(logger.Logger, m))

	r.NotFound(handleNotFound(m))
	r.MethodNotAllowed(handleMethodNotAllowed(m))

	validate := getValidate()

	r.Get("/", handleHome(cfg))
	r.Get("/health", handleHealth(urlSvc, m, cfg))
	r.Post("/shorten", handleShortenURL(urlSvc, m, cfg, validate))
	r.Get("/dashboard", handleDashboard(urlSvc, m))
	r.Post("/cleanup", handleCleanup(urlSvc))
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/stats/{shortCode}", handleGetURLStats(urlSvc, m))
	r.Get("/{shortCode}", handleRedirect(urlSvc, m))

	return r
}

package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/shadymh10/depi-graduation/internal/config"
	"github.com/shadymh10/depi-graduation/internal/database"
	"github.com/shadymh10/depi-graduation/internal/metrics"
	"github.com/shadymh10/depi-graduation/internal/service"
)

var errInvalidDaysValid = errors.New("invalid days_valid value")

func handleHome(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, homeResponse{
			Message:     "URL Shortener API",
			Version:     cfg.Version,
			Environment: cfg.Env,
			Endpoints: map[string]string{
				"shorten":   "POST /shorten",
				"redirect":  "GET /<short_code>",
				"stats":     "GET /stats/<short_code>",
				"health":    "GET /health",
				"metrics":   "GET /metrics",
				"cleanup":   "POST /cleanup",
				"dashboard": "GET /dashboard",
			},
		})
	}
}

func handleHealth(svc URLService, m *metrics.Metrics, cfg *config.Config) http.HandlerFunc {
	const op = "api.http.handleHealth"

	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Ping(r.Context()); err != nil {
			m.Errors.WithLabelValues("health_check").Inc()
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, healthResponse{
				Status:    "unhealthy",
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, healthResponse{
			Status:      "healthy",
			Timestamp:   time.Now(),
			Version:     cfg.Version,
			Environment: cfg.Env,
			Database:    "connected",
		})
	}
}

// decodeShortenRequest reads the shorten fields from either a JSON or a
// form-encoded body and resolves days_valid against the configured default.
func decodeShortenRequest(r *http.Request, defaultDays int) (shortenRequest, int, error) {
	var req shortenRequest

	if render.GetRequestContentType(r) == render.ContentTypeJSON {
		// A body that fails to decode leaves the url empty; the required
		// check below turns that into a validation error.
		_ = render.DecodeJSON(r.Body, &req)

		if req.DaysValid != nil {
			return req, *req.DaysValid, nil
		}
		return req, defaultDays, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, 0, errInvalidDaysValid
	}

	req.URL = r.PostFormValue("url")
	req.CustomCode = r.PostFormValue("custom_code")

	if raw := r.PostFormValue("days_valid"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return req, 0, errInvalidDaysValid
		}
		return req, days, nil
	}

	return req, defaultDays, nil
}

func handleShortenURL(svc URLService, m *metrics.Metrics, cfg *config.Config, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleShortenURL"

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		req, daysValid, err := decodeShortenRequest(r, cfg.DefaultExpiryDays)
		if err != nil {
			m.Errors.WithLabelValues("validation").Inc()
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: "Invalid days_valid value"})
			return
		}

		if err := validate.Struct(req); err != nil {
			m.Errors.WithLabelValues("validation").Inc()
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: "URL is required"})
			return
		}

		url, err := svc.ShortenURL(r.Context(), req.URL, req.CustomCode, daysValid)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrCodeTooLong):
				m.Errors.WithLabelValues("validation").Inc()
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, errorResponse{
					Error: fmt.Sprintf("Custom code too long (max %d characters)", cfg.MaxShortCodeLength),
				})
			case errors.Is(err, service.ErrCodeExists):
				m.Errors.WithLabelValues("duplicate_code").Inc()
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, errorResponse{Error: "Custom code already exists"})
			case errors.Is(err, service.ErrCodeCollision):
				m.Errors.WithLabelValues("integrity").Inc()
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, errorResponse{Error: "Short code already exists, try again"})
			default:
				m.Errors.WithLabelValues("database").Inc()
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, errorResponse{Error: "Internal server error"})
			}
			return
		}

		m.Creations.Inc()
		m.CreationDuration.Observe(time.Since(start).Seconds())

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, shortenResponse{
			OriginalURL: url.OriginalURL,
			ShortCode:   url.ShortCode,
			ShortURL:    "/" + url.ShortCode,
			ExpiresAt:   url.ExpiresAt,
			Message:     "URL shortened successfully",
		})
	}
}

func handleRedirect(svc URLService, m *metrics.Metrics) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		url, err := svc.ResolveShortCode(r.Context(), shortCode)
		if err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				m.Errors.WithLabelValues("not_found").Inc()
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, errorResponse{Error: "URL not found or expired"})
				return
			}

			m.Errors.WithLabelValues("database").Inc()
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, errorResponse{Error: "Internal server error"})
			return
		}

		m.Redirects.WithLabelValues(shortCode).Inc()
		http.Redirect(w, r, url.OriginalURL, http.StatusFound)
	}
}

func handleGetURLStats(svc URLService, m *metrics.Metrics) http.HandlerFunc {
	const op = "api.http.handleGetURLStats"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		url, err := svc.GetURLStats(r.Context(), shortCode)
		if err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				m.Errors.WithLabelValues("not_found").Inc()
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, errorResponse{Error: "URL not found"})
				return
			}

			m.Errors.WithLabelValues("database").Inc()
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, errorResponse{Error: "Internal server error"})
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, toStatsResponse(url, time.Now()))
	}
}

func handleDashboard(svc URLService, m *metrics.Metrics) http.HandlerFunc {
	const op = "api.http.handleDashboard"

	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.GetDashboardStats(r.Context())
		if err != nil {
			m.Errors.WithLabelValues("database").Inc()
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, errorResponse{Error: "Internal server error"})
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, toDashboardResponse(stats))
	}
}

func handleCleanup(svc URLService) http.HandlerFunc {
	const op = "api.http.handleCleanup"

	return func(w http.ResponseWriter, r *http.Request) {
		count, err := svc.CleanupExpired(r.Context())
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, errorResponse{Error: "Cleanup failed"})
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, cleanupResponse{
			Message:     "Cleanup completed",
			DeletedURLs: count,
		})
	}
}

func handleNotFound(m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.Errors.WithLabelValues("404").Inc()
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{Error: "Endpoint not found"})
	}
}

func handleMethodNotAllowed(m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.Errors.WithLabelValues("405").Inc()
		render.Status(r, http.StatusMethodNotAllowed)
		render.JSON(w, r, errorResponse{Error: "Method not allowed"})
	}
}

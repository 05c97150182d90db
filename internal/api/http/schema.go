package http

import (
	"time"

	"github.com/shadymh10/depi-graduation/internal/models"
)

// errorResponse is the JSON body for every failure status.
type errorResponse struct {
	Error string `json:"error"`
}

type homeResponse struct {
	Message     string            `json:"message"`
	Version     string            `json:"version"`
	Environment string            `json:"environment"`
	Endpoints   map[string]string `json:"endpoints"`
}

type healthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version,omitempty"`
	Environment string    `json:"environment,omitempty"`
	Database    string    `json:"database,omitempty"`
	Error       string    `json:"error,omitempty"`
}

type shortenRequest struct {
	URL        string `json:"url" validate:"required"`
	CustomCode string `json:"custom_code"`
	DaysValid  *int   `json:"days_valid"`
}

type shortenResponse struct {
	OriginalURL string     `json:"original_url"`
	ShortCode   string     `json:"short_code"`
	ShortURL    string     `json:"short_url"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Message     string     `json:"message"`
}

type statsResponse struct {
	OriginalURL string     `json:"original_url"`
	ShortCode   string     `json:"short_code"`
	ShortURL    string     `json:"short_url"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	ClickCount  int64      `json:"click_count"`
	IsActive    bool       `json:"is_active"`
}

type recentURL struct {
	ShortCode   string    `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
	ClickCount  int64     `json:"click_count"`
}

type dashboardResponse struct {
	RecentURLs  []recentURL `json:"recent_urls"`
	TotalURLs   int64       `json:"total_urls"`
	TotalClicks int64       `json:"total_clicks"`
	ActiveURLs  int64       `json:"active_urls"`
}

type cleanupResponse struct {
	Message     string `json:"message"`
	DeletedURLs int64  `json:"deleted_urls"`
}

func toStatsResponse(url *models.URL, now time.Time) statsResponse {
	return statsResponse{
		OriginalURL: url.OriginalURL,
		ShortCode:   url.ShortCode,
		ShortURL:    "/" + url.ShortCode,
		CreatedAt:   url.CreatedAt,
		ExpiresAt:   url.ExpiresAt,
		ClickCount:  url.ClickCount,
		IsActive:    url.Active(now),
	}
}

func toDashboardResponse(stats *models.DashboardStats) dashboardResponse {
	resp := dashboardResponse{
		RecentURLs:  make([]recentURL, 0, len(stats.RecentURLs)),
		TotalURLs:   stats.TotalURLs,
		TotalClicks: stats.TotalClicks,
		ActiveURLs:  stats.ActiveURLs,
	}

	for _, url := range stats.RecentURLs {
		resp.RecentURLs = append(resp.RecentURLs, recentURL{
			ShortCode:   url.ShortCode,
			OriginalURL: url.OriginalURL,
			CreatedAt:   url.CreatedAt,
			ClickCount:  url.ClickCount,
		})
	}

	return resp
}

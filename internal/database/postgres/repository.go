package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shadymh10/depi-graduation/internal/database"
	"github.com/shadymh10/depi-graduation/internal/models"
)

type urlRecord struct {
	ID          int64        `db:"id"`
	ShortCode   string       `db:"short_code"`
	OriginalURL string       `db:"original_url"`
	ClickCount  int64        `db:"click_count"`
	CreatedAt   time.Time    `db:"created_at"`
	ExpiresAt   sql.NullTime `db:"expires_at"`
}

func (r *urlRecord) ToURL() *models.URL {
	url := &models.URL{
		ID:          r.ID,
		ShortCode:   r.ShortCode,
		OriginalURL: r.OriginalURL,
		ClickCount:  r.ClickCount,
		CreatedAt:   r.CreatedAt,
	}

	if r.ExpiresAt.Valid {
		t := r.ExpiresAt.Time
		url.ExpiresAt = &t
	}

	return url
}

type dashboardTotals struct {
	TotalURLs   int64 `db:"total_urls"`
	TotalClicks int64 `db:"total_clicks"`
	ActiveURLs  int64 `db:"active_urls"`
}

// URLRepository persists shortened URLs in the urls table.
type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{
		db: db,
	}
}

// Create inserts a new url record. Short code uniqueness is enforced by the
// table constraint, so concurrent creations of the same code yield exactly
// one success and database.ErrShortCodeExists for the rest.
func (r *URLRepository) Create(ctx context.Context, shortCode, originalURL string, expiresAt *time.Time) (*models.URL, error) {
	const op = "database.postgres.URLRepository.Create"

	rec := new(urlRecord)
	query := `INSERT INTO urls(short_code, original_url, expires_at)
		VALUES ($1, $2, $3)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, shortCode, originalURL, expiresAt)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrShortCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to create url record: %w", op, err)
	}

	return rec.ToURL(), nil
}

// GetActiveByShortCode retrieves a url record by its short code, treating
// expired records as absent. Expiry is evaluated against the database clock.
func (r *URLRepository) GetActiveByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.GetActiveByShortCode"

	rec := new(urlRecord)
	query := `SELECT * FROM urls
		WHERE short_code = $1 AND (expires_at IS NULL OR expires_at > now())`

	err := r.db.GetContext(ctx, rec, query, shortCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get url record: %w", op, err)
	}

	return rec.ToURL(), nil
}

// GetByShortCode retrieves a url record by its short code regardless of expiry.
func (r *URLRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.GetByShortCode"

	rec := new(urlRecord)
	query := `SELECT * FROM urls WHERE short_code = $1`

	err := r.db.GetContext(ctx, rec, query, shortCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get url record: %w", op, err)
	}

	return rec.ToURL(), nil
}

// IncrementClickCount bumps the click counter for the given short code.
// An unknown code affects zero rows and is not an error.
func (r *URLRepository) IncrementClickCount(ctx context.Context, shortCode string) error {
	const op = "database.postgres.URLRepository.IncrementClickCount"

	query := `UPDATE urls SET click_count = click_count + 1 WHERE short_code = $1`

	if _, err := r.db.ExecContext(ctx, query, shortCode); err != nil {
		return fmt.Errorf("%s: failed to increment click count: %w", op, err)
	}

	return nil
}

// DeleteExpired removes records whose expiry is strictly before now and
// returns the number of rows deleted. Records without an expiry are kept.
func (r *URLRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const op = "database.postgres.URLRepository.DeleteExpired"

	query := `DELETE FROM urls WHERE expires_at < $1`

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete expired url records: %w", op, err)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}

	return count, nil
}

// GetDashboardStats returns aggregate totals and the 20 most recent records.
func (r *URLRepository) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	const op = "database.postgres.URLRepository.GetDashboardStats"

	totals := new(dashboardTotals)
	totalsQuery := `SELECT COUNT(*) AS total_urls,
			COALESCE(SUM(click_count), 0) AS total_clicks,
			COUNT(*) FILTER (WHERE expires_at IS NULL OR expires_at > now()) AS active_urls
		FROM urls`

	if err := r.db.GetContext(ctx, totals, totalsQuery); err != nil {
		return nil, fmt.Errorf("%s: failed to get url totals: %w", op, err)
	}

	var recs []urlRecord
	recentQuery := `SELECT * FROM urls ORDER BY created_at DESC LIMIT 20`

	if err := r.db.SelectContext(ctx, &recs, recentQuery); err != nil {
		return nil, fmt.Errorf("%s: failed to get recent url records: %w", op, err)
	}

	stats := &models.DashboardStats{
		TotalURLs:   totals.TotalURLs,
		TotalClicks: totals.TotalClicks,
		ActiveURLs:  totals.ActiveURLs,
		RecentURLs:  make([]models.URL, 0, len(recs)),
	}

	for _, rec := range recs {
		stats.RecentURLs = append(stats.RecentURLs, *rec.ToURL())
	}

	return stats, nil
}

// Ping verifies that the database is reachable.
func (r *URLRepository) Ping(ctx context.Context) error {
	const op = "database.postgres.URLRepository.Ping"

	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: database unreachable: %w", op, err)
	}

	return nil
}

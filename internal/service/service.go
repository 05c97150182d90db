package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shadymh10/depi-graduation/internal/database"
	"github.com/shadymh10/depi-graduation/internal/models"
)

var (
	// ErrCodeTooLong is returned when a custom short code exceeds the
	// configured maximum length.
	ErrCodeTooLong = errors.New("custom code too long")
	// ErrCodeExists is returned when the requested custom short code is
	// already taken.
	ErrCodeExists = errors.New("custom code already exists")
	// ErrCodeCollision is returned when a generated short code collides with
	// an existing record at insert time.
	ErrCodeCollision = errors.New("generated short code collision")
)

// URLRepository defines the storage operations the service depends on.
type URLRepository interface {
	// Create inserts a new shortened URL. Returns
	// database.ErrShortCodeExists if the short code is already taken.
	Create(ctx context.Context, shortCode, originalURL string, expiresAt *time.Time) (*models.URL, error)

	// GetActiveByShortCode retrieves a URL by its short code, treating
	// expired records as absent.
	GetActiveByShortCode(ctx context.Context, shortCode string) (*models.URL, error)

	// GetByShortCode retrieves a URL by its short code regardless of expiry.
	GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error)

	// IncrementClickCount bumps the click counter for the given short code.
	IncrementClickCount(ctx context.Context, shortCode string) error

	// DeleteExpired removes records that expired before now and returns the
	// number of rows deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// GetDashboardStats returns aggregate totals and the most recent records.
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)

	// Ping verifies that the storage is reachable.
	Ping(ctx context.Context) error
}

// CodeGenerator produces random short codes of the given length.
type CodeGenerator interface {
	Generate(length int) (string, error)
}

// URLService implements the URL shortening business logic on top of an
// injected repository and code generator.
type URLService struct {
	repo          URLRepository
	gen           CodeGenerator
	codeLength    int
	maxCodeLength int
}

// NewURLService creates a URLService. codeLength is the length of generated
// codes; maxCodeLength bounds caller-supplied custom codes.
func NewURLService(repo URLRepository, gen CodeGenerator, codeLength, maxCodeLength int) *URLService {
	return &URLService{
		repo:          repo,
		gen:           gen,
		codeLength:    codeLength,
		maxCodeLength: maxCodeLength,
	}
}

// NormalizeURL ensures the stored URL carries a scheme, prefixing inputs
// without one with "http://". Already-schemed URLs pass through unchanged.
func NormalizeURL(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}

	return "http://" + rawURL
}

// ShortenURL stores originalURL under customCode, or under a freshly
// generated code when customCode is empty, expiring daysValid days from now.
// A collision on a generated code is returned as ErrCodeCollision rather
// than retried; the caller resubmits.
func (s *URLService) ShortenURL(ctx context.Context, originalURL, customCode string, daysValid int) (*models.URL, error) {
	const op = "service.URLService.ShortenURL"

	originalURL = NormalizeURL(originalURL)

	shortCode := customCode
	if shortCode == "" {
		var err error
		shortCode, err = s.gen.Generate(s.codeLength)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}
	} else if len(shortCode) > s.maxCodeLength {
		return nil, fmt.Errorf("%s: %w", op, ErrCodeTooLong)
	}

	expiresAt := time.Now().Add(time.Duration(daysValid) * 24 * time.Hour)

	url, err := s.repo.Create(ctx, shortCode, originalURL, &expiresAt)
	if err != nil {
		if errors.Is(err, database.ErrShortCodeExists) {
			if customCode != "" {
				return nil, fmt.Errorf("%s: %w", op, ErrCodeExists)
			}

			return nil, fmt.Errorf("%s: %w", op, ErrCodeCollision)
		}

		return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
	}

	return url, nil
}

// ResolveShortCode returns the unexpired URL for shortCode and records the
// click. The lookup and the increment are not atomic with respect to
// concurrent cleanup; a click on a just-expired record is acceptable.
func (s *URLService) ResolveShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "service.URLService.ResolveShortCode"

	url, err := s.repo.GetActiveByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	if err := s.repo.IncrementClickCount(ctx, shortCode); err != nil {
		return nil, fmt.Errorf("%s: failed to record click: %w", op, err)
	}
	url.ClickCount++

	return url, nil
}

// GetURLStats returns the URL for shortCode, expired or not.
func (s *URLService) GetURLStats(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "service.URLService.GetURLStats"

	url, err := s.repo.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	return url, nil
}

// GetDashboardStats returns aggregate totals and the most recent records.
func (s *URLService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	const op = "service.URLService.GetDashboardStats"

	stats, err := s.repo.GetDashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get dashboard stats: %w", op, err)
	}

	return stats, nil
}

// CleanupExpired deletes records whose expiry has passed and returns the
// number deleted. Records without an expiry are never touched.
func (s *URLService) CleanupExpired(ctx context.Context) (int64, error) {
	const op = "service.URLService.CleanupExpired"

	count, err := s.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("%s: failed to clean up expired urls: %w", op, err)
	}

	return count, nil
}

// Ping reports whether the underlying storage is reachable.
func (s *URLService) Ping(ctx context.Context) error {
	const op = "service.URLService.Ping"

	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shadymh10/depi-graduation/internal/database"
	"github.com/shadymh10/depi-graduation/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var errUnknown = errors.New("unknown error")

func setupURLService(t testing.TB, gen CodeGenerator) (*URLService, *MockURLRepository) {
	t.Helper()

	repo := new(MockURLRepository)
	if gen == nil {
		gen = &stubGenerator{code: "abc123"}
	}
	svc := NewURLService(repo, gen, 6, 10)

	t.Cleanup(func() {
		repo.AssertExpectations(t)
	})

	return svc, repo
}

// expiresAboutDaysFromNow matches an expiry close to now + days.
func expiresAboutDaysFromNow(days int) any {
	return mock.MatchedBy(func(expiresAt *time.Time) bool {
		if expiresAt == nil {
			return false
		}
		want := time.Now().Add(time.Duration(days) * 24 * time.Hour)
		diff := expiresAt.Sub(want)
		return diff > -time.Minute && diff < time.Minute
	})
}

func TestNormalizeURL(t *testing.T) {
	t.Run("bare host gets http prefix", func(t *testing.T) {
		assert.Equal(t, "http://example.com", NormalizeURL("example.com"))
	})

	t.Run("http url unchanged", func(t *testing.T) {
		assert.Equal(t, "http://example.com", NormalizeURL("http://example.com"))
	})

	t.Run("https url unchanged", func(t *testing.T) {
		assert.Equal(t, "https://example.com", NormalizeURL("https://example.com"))
	})

	t.Run("prefix applied exactly once", func(t *testing.T) {
		assert.Equal(t, "http://example.com", NormalizeURL(NormalizeURL("example.com")))
	})
}

func TestURLService_ShortenURL(t *testing.T) {
	t.Run("generates code and normalizes url", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		repo.On("Create", mock.Anything, "abc123", "http://example.com", expiresAboutDaysFromNow(30)).
			Times(1).
			Return(&models.URL{ShortCode: "abc123", OriginalURL: "http://example.com"}, nil)

		url, err := svc.ShortenURL(context.TODO(), "example.com", "", 30)

		assert.NoError(t, err)
		assert.NotNil(t, url)
		assert.Equal(t, "abc123", url.ShortCode)
	})

	t.Run("custom code used as-is", func(t *testing.T) {
		svc, repo := setupURLService(t, &stubGenerator{err: errUnknown})

		repo.On("Create", mock.Anything, "mycode", "https://example.com", expiresAboutDaysFromNow(7)).
			Times(1).
			Return(&models.URL{ShortCode: "mycode", OriginalURL: "https://example.com"}, nil)

		url, err := svc.ShortenURL(context.TODO(), "https://example.com", "mycode", 7)

		assert.NoError(t, err)
		assert.Equal(t, "mycode", url.ShortCode)
	})

	t.Run("custom code too long", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		url, err := svc.ShortenURL(context.TODO(), "example.com", "waytoolongcustomcode", 30)

		assert.ErrorIs(t, err, ErrCodeTooLong)
		assert.Nil(t, url)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("custom code already taken", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		repo.On("Create", mock.Anything, "mycode", "http://example.com", mock.Anything).
			Times(1).
			Return(nil, database.ErrShortCodeExists)

		url, err := svc.ShortenURL(context.TODO(), "example.com", "mycode", 30)

		assert.ErrorIs(t, err, ErrCodeExists)
		assert.Nil(t, url)
	})

	t.Run("generated code collision is not retried", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		repo.On("Create", mock.Anything, "abc123", "http://example.com", mock.Anything).
			Times(1).
			Return(nil, database.ErrShortCodeExists)

		url, err := svc.ShortenURL(context.TODO(), "example.com", "", 30)

		assert.ErrorIs(t, err, ErrCodeCollision)
		assert.Nil(t, url)
		repo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("generator error", func(t *testing.T) {
		svc, repo := setupURLService(t, &stubGenerator{err: errUnknown})

		url, err := svc.ShortenURL(context.TODO(), "example.com", "", 30)

		assert.ErrorIs(t, err, errUnknown)
		assert.Nil(t, url)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("storage error passes through", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		repo.On("Create", mock.Anything, "abc123", "http://example.com", mock.Anything).
			Times(1).
			Return(nil, errUnknown)

		url, err := svc.ShortenURL(context.TODO(), "example.com", "", 30)

		assert.ErrorIs(t, err, errUnknown)
		assert.NotErrorIs(t, err, ErrCodeCollision)
		assert.Nil(t, url)
	})
}

func TestURLService_ResolveShortCode(t *testing.T) {
	t.Run("unknown or expired code", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		repo.On("GetActiveByShortCode", mock.Anything, "missing").
			Times(1).
			Return(nil, database.ErrURLNotFound)

		url, err := svc.ResolveShortCode(context.TODO(), "missing")

		assert.ErrorIs(t, err, database.ErrURLNotFound)
		assert.Nil(t, url)
		repo.AssertNotCalled(t, "IncrementClickCount")
	})

	t.Run("records exactly one click", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		repo.On("GetActiveByShortCode", mock.Anything, "abc123").
			Times(1).
			Return(&models.URL{ShortCode: "abc123", OriginalURL: "http://example.com", ClickCount: 4}, nil)
		repo.On("IncrementClickCount", mock.Anything, "abc123").
			Times(1).
			Return(nil)

		url, err := svc.ResolveShortCode(context.TODO(), "abc123")

		assert.NoError(t, err)
		assert.Equal(t, "http://example.com", url.OriginalURL)
		assert.Equal(t, int64(5), url.ClickCount)
	})

	t.Run("click increment failure", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		repo.On("GetActiveByShortCode", mock.Anything, "abc123").
			Times(1).
			Return(&models.URL{ShortCode: "abc123"}, nil)
		repo.On("IncrementClickCount", mock.Anything, "abc123").
			Times(1).
			Return(errUnknown)

		url, err := svc.ResolveShortCode(context.TODO(), "abc123")

		assert.ErrorIs(t, err, errUnknown)
		assert.Nil(t, url)
	})
}

func TestURLService_GetURLStats(t *testing.T) {
	t.Run("expired records are returned", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		expired := time.Now().Add(-time.Hour)
		repo.On("GetByShortCode", mock.Anything, "abc123").
			Times(1).
			Return(&models.URL{ShortCode: "abc123", ExpiresAt: &expired, ClickCount: 9}, nil)

		url, err := svc.GetURLStats(context.TODO(), "abc123")

		assert.NoError(t, err)
		assert.False(t, url.Active(time.Now()))
		assert.Equal(t, int64(9), url.ClickCount)
	})

	t.Run("unknown code", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		repo.On("GetByShortCode", mock.Anything, "missing").
			Times(1).
			Return(nil, database.ErrURLNotFound)

		url, err := svc.GetURLStats(context.TODO(), "missing")

		assert.ErrorIs(t, err, database.ErrURLNotFound)
		assert.Nil(t, url)
	})
}

func TestURLService_CleanupExpired(t *testing.T) {
	t.Run("returns deleted count", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		repo.On("DeleteExpired", mock.Anything, mock.AnythingOfType("time.Time")).
			Times(1).
			Return(int64(3), nil)

		count, err := svc.CleanupExpired(context.TODO())

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("storage error", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		repo.On("DeleteExpired", mock.Anything, mock.AnythingOfType("time.Time")).
			Times(1).
			Return(int64(0), errUnknown)

		count, err := svc.CleanupExpired(context.TODO())

		assert.ErrorIs(t, err, errUnknown)
		assert.Zero(t, count)
	})
}

func TestURLService_GetDashboardStats(t *testing.T) {
	t.Run("passes aggregates through", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		repo.On("GetDashboardStats", mock.Anything).
			Times(1).
			Return(&models.DashboardStats{TotalURLs: 5, TotalClicks: 12, ActiveURLs: 4}, nil)

		stats, err := svc.GetDashboardStats(context.TODO())

		assert.NoError(t, err)
		assert.Equal(t, int64(5), stats.TotalURLs)
		assert.Equal(t, int64(12), stats.TotalClicks)
		assert.Equal(t, int64(4), stats.ActiveURLs)
	})
}

func TestURLService_Ping(t *testing.T) {
	t.Run("storage unreachable", func(t *testing.T) {
		svc, repo := setupURLService(t, nil)

		repo.On("Ping", mock.Anything).
			Times(1).
			Return(errUnknown)

		assert.ErrorIs(t, svc.Ping(context.TODO()), errUnknown)
	})
}

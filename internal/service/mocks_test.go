package service

import (
	"context"
	"time"

	"github.com/shadymh10/depi-graduation/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockURLRepository struct {
	mock.Mock
}

func (r *MockURLRepository) Create(ctx context.Context, shortCode, originalURL string, expiresAt *time.Time) (*models.URL, error) {
	args := r.Called(ctx, shortCode, originalURL, expiresAt)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (r *MockURLRepository) GetActiveByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	args := r.Called(ctx, shortCode)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (r *MockURLRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	args := r.Called(ctx, shortCode)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (r *MockURLRepository) IncrementClickCount(ctx context.Context, shortCode string) error {
	args := r.Called(ctx, shortCode)
	return args.Error(0)
}

func (r *MockURLRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := r.Called(ctx, now)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

func (r *MockURLRepository) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	args := r.Called(ctx)
	stats, _ := args.Get(0).(*models.DashboardStats)
	return stats, args.Error(1)
}

func (r *MockURLRepository) Ping(ctx context.Context) error {
	args := r.Called(ctx)
	return args.Error(0)
}

// stubGenerator returns a fixed code or error, standing in for the random
// generator.
type stubGenerator struct {
	code string
	err  error
}

func (g *stubGenerator) Generate(length int) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.code, nil
}

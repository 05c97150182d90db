package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/shadymh10/depi-graduation/internal/config"
	"github.com/shadymh10/depi-graduation/internal/database/postgres"
	"github.com/shadymh10/depi-graduation/internal/metrics"
	"github.com/shadymh10/depi-graduation/internal/service"
	"github.com/shadymh10/depi-graduation/internal/shortcode"
	"golang.org/x/sync/errgroup"

	myhttp "github.com/shadymh10/depi-graduation/internal/api/http"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		panic(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := httplog.NewLogger("url-shortener", httplog.Options{
		LogLevel: slog.LevelInfo,
		Concise:  true,
	})

	g, ctx := errgroup.WithContext(ctx)

	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	g.Go(func() error {
		<-ctx.Done()
		return db.Close()
	})

	if err := postgres.RunMigrations(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
		return err
	}

	urlRepo := postgres.NewURLRepository(db)
	gen := shortcode.New()
	urlSvc := service.NewURLService(urlRepo, gen, cfg.DefaultShortCodeLength, cfg.MaxShortCodeLength)
	m := metrics.New()

	// One cleanup pass at startup; afterwards expired records are removed
	// only via POST /cleanup.
	deleted, err := urlSvc.CleanupExpired(ctx)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logger.Info("cleaned up expired urls", slog.Int64("deleted", deleted))
	}

	r := myhttp.NewRouter(logger, cfg, urlSvc, m)

	server := &http.Server{
		Addr:           cfg.Server.Addr(),
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    time.Minute,
		MaxHeaderBytes: 1 << 20,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Addr()),
			slog.String("env", cfg.Env),
		)

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return server.Shutdown(context.Background())
	})

	return g.Wait()
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/logging"
	middleware "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Error("db init", "err", err)
		os.Exit(1)
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Error("db migrate", "err", err)
		os.Exit(1)
	}

	pub := events.New(cfg.KafkaBrokers)
	index := openIndex(logger, cfg)

	codec := tokens.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	r := repo.New(gdb)

	e := httpserver.New(logger, cfg.ClientURL)
	httpserver.Register(e, &httpserver.Deps{
		DB:      gdb,
		Auth:    &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: r, Tokens: codec, Events: pub}},
		Catalog: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: pub, Index: index}},
		AuthMW:  middleware.NewAuth(codec),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("kafka close", "err", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close", "err", err)
	}
	logger.Info("shutdown complete")
}

// openIndex returns nil when Elasticsearch is not configured or not
// reachable; the catalog then searches the database directly.
func openIndex(logger *slog.Logger, cfg *config.Config) search.Index {
	if cfg.ESURL == "" {
		return nil
	}
	es, err := search.NewES(search.Config{
		URL:      cfg.ESURL,
		Username: cfg.ESUser,
		Password: cfg.ESPassword,
		Index:    cfg.ESIndex,
	})
	if err != nil {
		logger.Warn("elasticsearch disabled", "err", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := es.Ping(ctx); err != nil {
		logger.Warn("elasticsearch unreachable, using database search", "err", err)
		return nil
	}
	return es
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/offerhub/offerhub-go/internal/config"
	"github.com/offerhub/offerhub-go/internal/handler"
	"github.com/offerhub/offerhub-go/internal/payment"
	"github.com/offerhub/offerhub-go/internal/repository"
	"github.com/offerhub/offerhub-go/internal/service"
	"github.com/offerhub/offerhub-go/internal/storage"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", "offerhub"))

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	objects, err := newObjectStore(ctx, cfg)
	if err != nil {
		slog.Error("object store setup failed", "error", err)
		os.Exit(1)
	}

	assetService := service.NewAssetService(objects, cfg.AssetRoot, cfg.MaxUploadBytes)
	authService := service.NewAuthService(repository.NewUserRepository(db), assetService)
	offerService := service.NewOfferService(repository.NewOfferRepository(db), assetService, cfg.CatalogMaxLimit, cfg.EnforceOwnership)
	paymentService := service.NewPaymentService(payment.NewStripeCharger(cfg.StripeSecret))

	r := handler.NewRouter(handler.Routes{
		Authenticator: authService,
		Offers:        handler.NewOfferHandler(offerService, cfg.MaxRequestBytes),
		Users:         handler.NewAuthHandler(authService, cfg.MaxRequestBytes),
		Payments:      handler.NewPaymentHandler(paymentService),
		CORSOrigins:   cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
		IdleTimeout:  2 * cfg.ServerTimeout,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "ownership_enforced", cfg.EnforceOwnership)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// newObjectStore returns the S3 store when a bucket is configured and an
// in-memory store for local development otherwise.
func newObjectStore(ctx context.Context, cfg config.Config) (service.ObjectStore, error) {
	if !cfg.UseObjectStore() {
		slog.Warn("S3_BUCKET not set, assets are kept in memory")
		return storage.NewMemoryStore("memory://" + cfg.AssetRoot), nil
	}

	return storage.NewS3Store(ctx, storage.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
}

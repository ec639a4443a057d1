package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"zakatku-backend/internal/adapter/repo"
	"zakatku-backend/internal/audit"
	httpapi "zakatku-backend/internal/http"
	"zakatku-backend/internal/http/handlers"
	"zakatku-backend/internal/infra"
	"zakatku-backend/internal/service"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	// Konfigurasi & logger
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// DB pool (pgxpool)
	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	// Repositories & audit trail
	donations := repo.NewDonationRepository(dbpool)
	users := repo.NewUserRepository(dbpool)
	donors := repo.NewDonorRepository(dbpool)
	auditLogs := repo.NewAuditLogRepository(dbpool)
	trail := audit.NewRecorder(auditLogs)

	// App container
	app := &handlers.App{
		Donations:  service.NewDonationService(donations, users, trail, logger),
		Users:      service.NewUserService(users, donations, trail, logger),
		Donors:     service.NewDonorService(donors, trail, logger),
		AuditLogs:  auditLogs,
		Logger:     logger,
		JWTSecret:  cfg.JWTSecret,
		SessionTTL: cfg.SessionTTL,
	}

	router := httpapi.NewRouter(cfg, app)
	server := infra.NewHTTPServer(cfg, router)

	// Start async
	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

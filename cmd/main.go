package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emilianozm24/baloncesto-api/config"
	"github.com/emilianozm24/baloncesto-api/db"
	"github.com/emilianozm24/baloncesto-api/handlers"
	"github.com/emilianozm24/baloncesto-api/live"
	"github.com/emilianozm24/baloncesto-api/middleware"
	"github.com/emilianozm24/baloncesto-api/pdf"
	"github.com/emilianozm24/baloncesto-api/repositories"
	api "github.com/emilianozm24/baloncesto-api/routes"
	"github.com/emilianozm24/baloncesto-api/services"
	"github.com/emilianozm24/baloncesto-api/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

// tokenSweepInterval is how often expired one-shot tokens get purged.
const tokenSweepInterval = 10 * time.Minute

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tokenRepo := repositories.NewPostgresTokenRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	logger.Info("repositories initialized")

	mailer := services.NewEmailService(cfg)
	rosterRenderer := pdf.NewRosterRenderer("IPN", "Torneo de Baloncesto")

	authService := services.NewAuthService(userRepo, tokenRepo, mailer, logger)
	userService := services.NewUserService(userRepo)
	tournamentService := services.NewTournamentService(tournamentRepo, teamRepo, playerRepo, matchRepo, uploader, logger)
	teamService := services.NewTeamService(teamRepo, playerRepo, tournamentRepo, uploader, logger)
	playerService := services.NewPlayerService(playerRepo, teamRepo, uploader, rosterRenderer, logger)
	matchService := services.NewMatchService(matchRepo, teamRepo, tournamentRepo, wsHub)
	logger.Info("services initialized")

	// Expired confirmation and reset tokens pile up unless something
	// clears them out.
	go func() {
		ticker := time.NewTicker(tokenSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			removed, err := tokenRepo.DeleteExpired(context.Background(), time.Now())
			if err != nil {
				logger.Error("token sweep failed", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				logger.Info("expired tokens removed", slog.Int64("count", removed))
			}
		}
	}()

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey, userRepo)
	resolver := middleware.NewResolver(tournamentRepo, teamRepo, playerRepo, matchRepo)

	authHandler := handlers.NewAuthHandler(authService, userService, cfg.JWTSecretKey)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	teamHandler := handlers.NewTeamHandler(teamService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	matchHandler := handlers.NewMatchHandler(matchService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentRepo, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.CORSAllowedOrigins,
		authenticator,
		resolver,
		authHandler,
		tournamentHandler,
		teamHandler,
		playerHandler,
		matchHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

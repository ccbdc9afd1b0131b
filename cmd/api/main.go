package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Tsaleem123/game-inventory-backend/internal/auth"
	"github.com/Tsaleem123/game-inventory-backend/internal/catalog"
	"github.com/Tsaleem123/game-inventory-backend/internal/config"
	"github.com/Tsaleem123/game-inventory-backend/internal/discovery"
	"github.com/Tsaleem123/game-inventory-backend/internal/handler"
	"github.com/Tsaleem123/game-inventory-backend/internal/mailer"
	"github.com/Tsaleem123/game-inventory-backend/internal/repository"
	"github.com/Tsaleem123/game-inventory-backend/internal/server"
	"github.com/Tsaleem123/game-inventory-backend/internal/usecase"
	"github.com/Tsaleem123/game-inventory-backend/internal/validation"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.NewConfig(&logger)

	if cfg.Environment == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	pingCtx, cancelPing := context.WithTimeout(ctx, 10*time.Second)
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mongodb")
	}
	cancelPing()

	db := client.Database(cfg.MongoDatabase)

	indexCtx, cancelIndex := context.WithTimeout(ctx, 30*time.Second)
	userRepo := repository.NewUserMongoRepository(indexCtx, &logger, db)
	pendingRepo := repository.NewPendingRegistrationMongoRepository(indexCtx, &logger, db)
	entryRepo := repository.NewGameEntryMongoRepository(indexCtx, &logger, db)
	cacheRepo := repository.NewSearchCacheMongoRepository(indexCtx, &logger, db)
	cancelIndex()

	appMailer := mailer.NewMailer(&logger)

	tokenIssuer := auth.NewTokenIssuer(
		cfg.Token.Secret,
		cfg.Token.Issuer,
		cfg.Token.Audience,
		cfg.Token.SessionTokenExpiresIn,
		cfg.Token.EmailTokenExpiresIn,
		cfg.Token.PasswordResetTokenExpiresIn,
	)

	validator, err := validation.NewValidator()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create validator")
	}

	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey)

	authUsecase := usecase.NewAuthUsecase(userRepo, pendingRepo, tokenIssuer, appMailer, cfg, &logger)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(userRepo, tokenIssuer, appMailer, cfg, &logger)
	libraryUsecase := usecase.NewLibraryUsecase(entryRepo)
	catalogUsecase := usecase.NewCatalogUsecase(catalogClient, cacheRepo, cfg, &logger)

	router := server.NewRouter(server.Handlers{
		Auth:          handler.NewAuthHandler(authUsecase, validator, &logger),
		PasswordReset: handler.NewPasswordResetHandler(passwordResetUsecase, validator, cfg, &logger),
		Library:       handler.NewLibraryHandler(libraryUsecase, validator, &logger),
		Catalog:       handler.NewCatalogHandler(catalogUsecase, &logger),
	}, tokenIssuer, &logger)

	srv := server.New(cfg.HTTPAddr, router, &logger)

	if cfg.Consul.Enabled {
		registrar, err := discovery.NewRegistrar(cfg.Consul, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create consul registrar")
		}
		if err := registrar.Register(); err != nil {
			logger.Fatal().Err(err).Msg("failed to register with consul")
		}
		defer registrar.Deregister()
	}

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down http server")
	}
}

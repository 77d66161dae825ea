package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clipflow/domain/repository"
	"clipflow/infrastructure/cache"
	"clipflow/infrastructure/clients/aigateway"
	"clipflow/infrastructure/clients/instagram"
	"clipflow/infrastructure/clients/tiktok"
	youtubeclient "clipflow/infrastructure/clients/youtube"
	"clipflow/infrastructure/configuration"
	"clipflow/infrastructure/logger"
	"clipflow/infrastructure/persistence"
	"clipflow/infrastructure/pubsub"
	httpHandler "clipflow/interfaces/http"
	"clipflow/server"
	"clipflow/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence),
	// then rebuild the config so late env-file values reach it.
	configuration.LoadEnvFromFile("config.env", ".env")
	configuration.Reload()

	app := configuration.C.App

	psqlDb, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		os.Exit(1)
	}
	if err := persistence.EnsurePublishSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed ensuring publish schema")
		os.Exit(1)
	}
	logger.GetLogger().WithField("PSQLDb", psqlDb.Ping()).Info("Database connected.")

	videoRepository := persistence.NewVideoRepository(psqlDb)
	projectRepository := persistence.NewProjectRepository(psqlDb)
	connectionRepository := persistence.NewConnectionRepository(psqlDb, configuration.C.Crypto.TokenKey)

	// Redis is optional; without it the last-run endpoint reports not found.
	var reportCache repository.IReportCache
	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without run report cache")
	} else {
		reportCache = cache.NewReportCache(redisClient)
		logger.GetLogger().Info("Redis client initialized successfully.")
	}

	// Pub/Sub is optional; without it publish events are not emitted.
	var notifier repository.IPublishNotifier
	if configuration.C.PubSub.ProjectID != "" {
		pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.PubSub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without publish events")
		} else {
			topic := configuration.C.PubSub.Topic
			if topic == "" {
				topic = "video-published"
			}
			notifier = pubsub.NewPublishNotifier(pubSubClient, topic)
		}
	}

	oauthClients := map[string]usecase.OAuthClientCredentials{}
	for _, platform := range []string{"youtube", "tiktok", "instagram"} {
		if client, ok := configuration.GetOAuthClient(platform); ok {
			oauthClients[platform] = usecase.OAuthClientCredentials{
				ClientID:     client.ClientID,
				ClientSecret: client.ClientSecret,
				TokenURL:     client.TokenURL,
			}
		}
	}
	credentialUsecase := usecase.NewCredentialUsecase(connectionRepository, oauthClients)

	publishers := []repository.IPlatformPublisher{
		youtubeclient.NewPublisher(nil),
		tiktok.NewPublisher(nil),
		instagram.NewPublisher(nil),
	}

	publishUsecase := usecase.NewPublishUsecase(
		videoRepository,
		connectionRepository,
		credentialUsecase,
		publishers,
		configuration.C.Publisher.BatchSize,
		configuration.C.Publisher.Workers,
	)
	if reportCache != nil {
		publishUsecase.WithReportCache(reportCache)
	}
	if notifier != nil {
		publishUsecase.WithNotifier(notifier)
	}

	scriptGenerator := aigateway.NewClient(
		configuration.C.AIGateway.URL,
		configuration.C.AIGateway.APIKey,
		configuration.C.AIGateway.Model,
		nil,
	)
	generateUsecase := usecase.NewGenerateUsecase(videoRepository, projectRepository, scriptGenerator)

	healthHandler := httpHandler.NewHealthHandler()
	publishHandler := httpHandler.NewPublishHandler(publishUsecase, reportCache)
	generateHandler := httpHandler.NewGenerateHandler(generateUsecase)

	router := server.InitiateRouter(healthHandler, publishHandler, generateHandler, app.SecretKey)

	// Background publish loop: one pass per interval, skipped while a previous
	// pass still runs thanks to the claim step.
	interval := time.Duration(configuration.C.Publisher.IntervalSeconds) * time.Second
	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				// No run-level deadline: a full batch with slow platform
				// processing can legitimately outlast a tick, and each HTTP
				// call carries its own client timeout. The claim step keeps
				// overlapping passes from touching the same videos.
				report, err := publishUsecase.RunOnce(ctx)
				if err != nil {
					logger.GetLogger().WithField("error", err).Error("Scheduled publish run failed")
					continue
				}
				if report.Processed > 0 {
					logger.GetLogger().WithField("processed", report.Processed).Info("Scheduled publish run finished")
				}
			}
		}
	})

	port := app.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

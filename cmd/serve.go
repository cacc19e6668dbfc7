package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"task-market.com/task-market/internal/alerts"
	"task-market.com/task-market/internal/auth"
	config "task-market.com/task-market/internal/configs"
	httpapi "task-market.com/task-market/internal/http"
	middleware "task-market.com/task-market/internal/http/middlewares"
	"task-market.com/task-market/internal/queue"
	"task-market.com/task-market/internal/realtime"
	repository "task-market.com/task-market/internal/repositories"
	"task-market.com/task-market/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the marketplace HTTP API, the realtime feed and the outbox worker pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		db := config.New(cfg.DatabaseDSN)
		store := repository.NewStore(db)

		redisClient := config.NewRedisClient(cfg.RedisAddr)
		feed := realtime.NewRedisFeed(redisClient, cfg.RedisFeedPrefix)

		streamSlots := queue.NewRedisSlots(redisClient, cfg.RedisStreamSlotsKey, int64(cfg.StreamMaxConnections))
		if err := streamSlots.Reset(context.Background()); err != nil {
			log.Fatalf("failed to reset stream slots: %v", err)
		}

		var scheduler alerts.Scheduler = alerts.Discard
		kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaAlertsTopic)
		if kafkaWriter != nil {
			scheduler = alerts.NewKafkaScheduler(kafkaWriter)
		} else {
			log.Println("KAFKA_BROKERS not set, push alerts are disabled")
		}

		sessions := services.NewSessionRegistry(feed)
		resolver := services.NewIdentityResolver(store.Profiles, cfg.FanOutConcurrency)
		notifier := services.NewNotificationService(store.Notifications, resolver, feed, scheduler, sessions)
		processor := services.NewOutboxProcessor(store.Outbox, notifier)

		pool := services.NewPoolService(
			processor,
			store.Outbox,
			cfg.Workers,
			cfg.QueueSize,
			time.Duration(cfg.PollIntervalSeconds)*time.Second,
			cfg.PollBatchSize,
		)

		handler := httpapi.NewHandler(
			services.NewTaskService(store, pool),
			services.NewApplicationService(store, pool),
			notifier,
			services.NewIntakeService(store, notifier),
			sessions,
			streamSlots,
		)

		tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTTTLMinutes)*time.Minute)

		e := echo.New()
		e.HideBanner = true
		httpapi.Register(e, handler, middleware.Session(tokens, store.Profiles), cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("server stopped: %v", err)
			}
		}()

		httpDone := make(chan struct{})
		wait := gfshutdown.GracefulShutdown(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
			map[string]gfshutdown.Operation{
				"http": func(ctx context.Context) error {
					defer close(httpDone)
					handler.CloseStreams()
					sessions.CloseAll()
					return e.Shutdown(ctx)
				},
				// Handlers enqueue into the pool and workers write rows and
				// alerts, so the clients close last.
				"backend": func(ctx context.Context) error {
					select {
					case <-httpDone:
					case <-ctx.Done():
					}
					pool.Shutdown(ctx)

					var errs []error
					if kafkaWriter != nil {
						errs = append(errs, kafkaWriter.Close())
					}
					redisClient.Close()
					if sqlDB, err := db.DB(); err != nil {
						errs = append(errs, err)
					} else {
						errs = append(errs, sqlDB.Close())
					}
					return errors.Join(errs...)
				},
			},
		)

		exitCode := <-wait
		log.Printf("HTTP server and outbox pool shut down with code %d", exitCode)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

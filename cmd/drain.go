package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"task-market.com/task-market/internal/alerts"
	config "task-market.com/task-market/internal/configs"
	"task-market.com/task-market/internal/realtime"
	repository "task-market.com/task-market/internal/repositories"
	"task-market.com/task-market/internal/services"
)

var drainLimit int

// drain delivers outbox events left behind by a stopped server. Nobody holds
// a live session in this process, so no push alerts go out.
var drainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Deliver pending outbox events once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		db := config.New(cfg.DatabaseDSN)
		store := repository.NewStore(db)

		redisClient := config.NewRedisClient(cfg.RedisAddr)
		defer redisClient.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		resolver := services.NewIdentityResolver(store.Profiles, cfg.FanOutConcurrency)
		notifier := services.NewNotificationService(
			store.Notifications,
			resolver,
			realtime.NewRedisFeed(redisClient, cfg.RedisFeedPrefix),
			alerts.Discard,
			nil,
		)
		processor := services.NewOutboxProcessor(store.Outbox, notifier)

		handled, err := processor.DrainPending(ctx, drainLimit)
		if err != nil {
			return err
		}

		log.Printf("drained %d outbox events", handled)
		return nil
	},
}

func init() {
	drainCmd.Flags().IntVar(&drainLimit, "limit", 500, "maximum number of events to deliver")
	rootCmd.AddCommand(drainCmd)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/procurement-portal/internal/core/events"
	"github.com/frahmantamala/procurement-portal/pkg/logger"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background workers like the delegation expiry sweeper.`,
}

// Delegation sweeper command
var delegationWorkerCmd = &cobra.Command{
	Use:   "delegations",
	Short: "Start the delegation expiry sweeper",
	Long:  `Periodically deactivates delegations whose end date has passed`,
	Run: func(cmd *cobra.Command, args []string) {
		startDelegationSweeper()
	},
}

// Event Bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus `,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var sweepInterval time.Duration

func startDelegationSweeper() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	sqlxDB, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer sqlxDB.Close()

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize gorm: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting delegation sweeper", "interval", sweepInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	sweep := func() {
		result := db.Exec("UPDATE delegations SET is_active = false, updated_at = now() WHERE is_active = true AND end_date < now()")
		if result.Error != nil {
			logger.Error("delegation sweep failed", "error", result.Error)
			return
		}
		if result.RowsAffected > 0 {
			logger.Info("deactivated expired delegations", "count", result.RowsAffected)
		}
	}

	sweep()

	for {
		select {
		case <-ticker.C:
			sweep()
		case sig := <-sigChan:
			logger.Info("received signal, shutting down delegation sweeper", "signal", sig)
			return
		}
	}
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	eventBus := events.NewEventBus(logger)

	eventBus.Subscribe("test.event", func(ctx context.Context, event events.Event) error {
		logger.Info("received test event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	logger.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	logger.Info("received signal, shutting down event bus", "signal", sig)
	logger.Info("event bus shutdown complete")
}

func init() {
	delegationWorkerCmd.Flags().DurationVar(&sweepInterval, "interval", time.Hour, "How often to sweep for expired delegations")

	workerCmd.AddCommand(delegationWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}

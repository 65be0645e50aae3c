package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"focusflow/internal/bot"
	"focusflow/internal/commands/options"
	"focusflow/internal/log"
	"focusflow/internal/repository"
	"focusflow/internal/service"
)

// watchDelay coalesces the burst of file events a single save produces.
const watchDelay = 300 * time.Millisecond

func addServe(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the digest scheduler",
		Long: options.Wrap80(`Run the Telegram bot and send the daily digest on schedule. Changes made
from the command line while the bot runs are picked up automatically.`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := rt.cfg
			if err := cfg.RequireTelegram(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reminders := service.NewReminderService(rt.store)
			telegramBot, err := bot.New(cfg.TelegramToken, rt.store, reminders, cfg)
			if err != nil {
				return err
			}

			scheduler := service.NewSchedulerService(time.Local)
			schedule := service.DigestSchedule{Daily: cfg.DigestTime, Every: cfg.DigestInterval}
			err = scheduler.ScheduleDigest(schedule, func() {
				jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
				defer cancel()
				if err := telegramBot.SendDigest(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("send digest", err)
				}
			})
			if err != nil {
				return err
			}
			if !schedule.Empty() {
				scheduler.Start()
				defer scheduler.Stop()
			}

			if path := rt.gw.WatchPath(); path != "" {
				changes, err := repository.Watch(ctx, path, watchDelay)
				if err != nil {
					log.Warn("storage watch disabled", "err", err)
				} else {
					go func() {
						for range changes {
							rt.store.Reload(ctx)
						}
					}()
				}
			}

			log.Info("focusflow bot started", "backend", cfg.StorageBackend, "digests", scheduler.Len())
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("bot stopped with error: %w", err)
			}
			log.Info("shutdown complete")
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

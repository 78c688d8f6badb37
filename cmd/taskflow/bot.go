package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskflow/internal/bot"
	"taskflow/internal/service"
)

func (c *cli) botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Serve the task list to the owner over Telegram",
		Long: `Starts the Telegram bot. TELEGRAM_TOKEN and TELEGRAM_OWNER_ID are required;
every other chat is ignored. A dashboard digest is sent every
REPORT_INTERVAL_HOURS, and a dated backup is written daily at BACKUP_TIME when
BACKUP_DIR is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBot(cmd.Context())
		},
	}
}

func (c *cli) runBot(ctx context.Context) error {
	cfg := c.cfg
	if err := cfg.ValidateBot(); err != nil {
		return err
	}
	a := c.app
	logger := c.logger

	telegramBot, err := bot.New(cfg.Telegram.Token, cfg.Telegram.OwnerID, cfg.SystemDark, bot.Deps{
		Store:   a.Store,
		Tasks:   a.Tasks,
		Reports: a.Reports,
		Themes:  a.Themes,
	}, logger.Named("bot"))
	if err != nil {
		return err
	}

	scheduler := service.NewSchedulerService(time.Local, logger.Named("scheduler"))
	if cfg.Telegram.ReportInterval > 0 {
		if _, err := scheduler.ScheduleInterval("digest", cfg.Telegram.ReportInterval, func() {
			jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if err := telegramBot.SendDigest(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("digest", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}
	if cfg.Backup.Dir != "" {
		if _, err := scheduler.ScheduleDaily("backup", cfg.Backup.Time, func() {
			if _, err := a.Backups.ExportToDir(ctx, cfg.Backup.Dir); err != nil {
				logger.Error("scheduled backup", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.Info("taskflow bot started", zap.Int64("owner", cfg.Telegram.OwnerID))
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

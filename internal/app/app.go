package app

import (
	"context"
	"fmt"

	"github.com/jcarcaboso/gas-alerts/internal/config"
	"github.com/jcarcaboso/gas-alerts/internal/delivery/telegram"
	"github.com/jcarcaboso/gas-alerts/internal/domain"
	"github.com/jcarcaboso/gas-alerts/internal/infra/db"
	"github.com/jcarcaboso/gas-alerts/internal/infra/ethereum"
	"github.com/jcarcaboso/gas-alerts/internal/infra/log"
	"github.com/jcarcaboso/gas-alerts/internal/infra/store"
	"github.com/jcarcaboso/gas-alerts/internal/usecase"
	"go.uber.org/zap"
)

type App struct {
	bot        *telegram.Bot
	watcher    *usecase.AlertWatcher
	logger     *zap.Logger
	cleanupFns []func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a := &App{logger: logger}

	defaultWei, err := cfg.DefaultThreshold()
	if err != nil {
		return nil, err
	}

	thresholds, err := a.openThresholds(cfg)
	if err != nil {
		a.cleanup()
		return nil, err
	}

	gasClient, err := ethereum.Dial(ctx, cfg.EthRPCURL(), cfg.EthRPCTimeout, logger.Named("ethereum"))
	if err != nil {
		a.cleanup()
		return nil, err
	}
	a.cleanupFns = append(a.cleanupFns, func() error {
		gasClient.Close()
		return nil
	})

	gasUC := usecase.NewGasUsecase(gasClient)
	thresholdUC := usecase.NewThresholdUsecase(thresholds, defaultWei)

	seeded, err := thresholdUC.EnsureDefault(ctx)
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("seed default threshold: %w", err)
	}
	if seeded {
		logger.Info("thresholds store seeded", zap.String("default_wei", defaultWei.String()))
	}

	api, err := telegram.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		a.cleanup()
		return nil, err
	}

	handlers := telegram.NewHandlers(gasUC, thresholdUC, cfg.TelegramChatID, logger)
	a.bot = telegram.NewBot(api, handlers, cfg.TelegramPollTimeout, logger)

	if cfg.AlertsEnabled {
		notifier := telegram.NewNotifier(api, logger)
		a.watcher = usecase.NewAlertWatcher(gasUC, thresholds, notifier, cfg.TelegramChatID, cfg.AlertCheckInterval, logger)
	}

	return a, nil
}

func (a *App) openThresholds(cfg config.Config) (domain.ThresholdRepository, error) {
	switch cfg.ThresholdStore {
	case config.StorePostgres:
		dbConn, err := db.Open(cfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.cleanupFns = append(a.cleanupFns, func() error {
			sqlDB, err := dbConn.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
		return db.NewThresholdRepository(dbConn), nil
	default:
		return store.NewFileStore(cfg.ThresholdsFile, a.logger.Named("store")), nil
	}
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("gasbot service starting")
	if a.watcher != nil {
		a.watcher.Start(ctx)
	}

	a.logger.Info("gasbot service started")
	return a.bot.Start(ctx)
}

func (a *App) Shutdown() {
	a.logger.Info("gasbot service shutting down")
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.cleanup()
	_ = a.logger.Sync()
}

func (a *App) cleanup() {
	for i := len(a.cleanupFns) - 1; i >= 0; i-- {
		if err := a.cleanupFns[i](); err != nil {
			a.logger.Warn("cleanup failed", zap.Error(err))
		}
	}
	a.cleanupFns = nil
}

package usecase

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/jcarcaboso/gas-alerts/internal/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// AlertWatcher periodically compares the gas price with the stored
// thresholds and notifies the target chat once per downward crossing.
type AlertWatcher struct {
	gas        *GasUsecase
	thresholds domain.ThresholdRepository
	notifier   Notifier
	chatID     int64
	interval   time.Duration
	logger     *zap.Logger

	mu    sync.Mutex
	fired map[string]struct{}
	cron  *cron.Cron
}

func NewAlertWatcher(gas *GasUsecase, thresholds domain.ThresholdRepository, notifier Notifier, chatID int64, interval time.Duration, logger *zap.Logger) *AlertWatcher {
	return &AlertWatcher{
		gas:        gas,
		thresholds: thresholds,
		notifier:   notifier,
		chatID:     chatID,
		interval:   interval,
		logger:     logger,
		fired:      make(map[string]struct{}),
	}
}

func (w *AlertWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cron != nil {
		return
	}

	w.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: w.logger.Sugar()})))
	w.cron.Schedule(cron.Every(w.interval), cron.FuncJob(func() {
		if err := w.Check(ctx); err != nil {
			w.logger.Warn("gas alert check failed", zap.Error(err))
		}
	}))
	w.cron.Start()
	w.logger.Info("gas alert watcher started", zap.Duration("interval", w.interval), zap.Int64("chat_id", w.chatID))
}

func (w *AlertWatcher) Stop() {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()

	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-time.After(5 * time.Second):
		w.logger.Warn("timeout stopping gas alert watcher")
	}
}

// Check runs one comparison pass. Duplicate thresholds share one alert.
func (w *AlertWatcher) Check(ctx context.Context) error {
	reading, err := w.gas.CurrentPrice(ctx)
	if err != nil {
		return err
	}
	thresholds, err := w.thresholds.List(ctx)
	if err != nil {
		return err
	}

	for _, threshold := range distinct(thresholds) {
		key := threshold.String()
		if reading.Wei.Cmp(threshold) > 0 {
			w.rearm(key)
			continue
		}
		if w.hasFired(key) {
			continue
		}

		text := fmt.Sprintf("Gas price alert: %s gwei is at or below your %s gwei threshold", reading.Gwei(), domain.FormatGwei(threshold))
		if err := w.notifier.Notify(ctx, w.chatID, text); err != nil {
			w.logger.Warn("failed to send gas alert", zap.Int64("chat_id", w.chatID), zap.String("threshold_wei", key), zap.Error(err))
			continue
		}
		w.markFired(key)
		w.logger.Info("gas alert triggered", zap.String("threshold_wei", key), zap.String("price_wei", reading.Wei.String()))
	}
	return nil
}

func (w *AlertWatcher) hasFired(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.fired[key]
	return ok
}

func (w *AlertWatcher) markFired(key string) {
	w.mu.Lock()
	w.fired[key] = struct{}{}
	w.mu.Unlock()
}

func (w *AlertWatcher) rearm(key string) {
	w.mu.Lock()
	delete(w.fired, key)
	w.mu.Unlock()
}

func distinct(thresholds []*big.Int) []*big.Int {
	seen := make(map[string]struct{}, len(thresholds))
	out := make([]*big.Int, 0, len(thresholds))
	for _, threshold := range thresholds {
		key := threshold.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, threshold)
	}
	return out
}

type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}

package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jpillora/backoff"
	"go.uber.org/zap"
)

const notifyAttempts = 3

// Notifier pushes unsolicited messages, retrying failed sends with backoff.
type Notifier struct {
	api      Sender
	logger   *zap.Logger
	attempts int
	minDelay time.Duration
	maxDelay time.Duration
}

func NewNotifier(api Sender, logger *zap.Logger) *Notifier {
	return &Notifier{
		api:      api,
		logger:   logger,
		attempts: notifyAttempts,
		minDelay: 500 * time.Millisecond,
		maxDelay: 5 * time.Second,
	}
}

func (n *Notifier) Notify(ctx context.Context, chatID int64, text string) error {
	b := &backoff.Backoff{Min: n.minDelay, Max: n.maxDelay, Factor: 2, Jitter: true}

	var err error
	for attempt := 1; attempt <= n.attempts; attempt++ {
		n.logger.Info("telegram notify send", zap.Int64("chat_id", chatID), zap.Int("attempt", attempt))
		if _, err = n.api.Send(tgbotapi.NewMessage(chatID, text)); err == nil {
			return nil
		}
		n.logger.Warn("failed to notify", zap.Int64("chat_id", chatID), zap.Int("attempt", attempt), zap.Error(err))
		if attempt == n.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.Duration()):
		}
	}
	return fmt.Errorf("notify chat %d after %d attempts: %w", chatID, n.attempts, err)
}

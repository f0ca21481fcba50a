package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var botCommands = []tgbotapi.BotCommand{
	{Command: "checkgas", Description: "check the current gas price in gwei"},
	{Command: "setgasalert", Description: "set a gas price alert in gwei"},
	{Command: "alerts", Description: "list gas alert thresholds"},
	{Command: "help", Description: "display this text"},
}

type Bot struct {
	api         *tgbotapi.BotAPI
	handlers    *Handlers
	pollTimeout int
	logger      *zap.Logger
}

func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

func NewBot(api *tgbotapi.BotAPI, handlers *Handlers, pollTimeout int, logger *zap.Logger) *Bot {
	return &Bot{api: api, handlers: handlers, pollTimeout: pollTimeout, logger: logger}
}

// Start long-polls for updates and handles them one at a time until ctx is
// cancelled. A failed update never stops the loop.
func (b *Bot) Start(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
		b.logger.Warn("failed to register bot commands", zap.Error(err))
	}

	config := tgbotapi.NewUpdate(0)
	config.Timeout = b.pollTimeout
	config.AllowedUpdates = []string{"message"}
	updates := b.api.GetUpdatesChan(config)
	b.logger.Info("telegram polling started", zap.String("bot", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handlers.HandleUpdate(ctx, b.api, update)
		}
	}
}

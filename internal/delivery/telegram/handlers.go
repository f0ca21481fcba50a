package telegram

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jcarcaboso/gas-alerts/internal/domain"
	"github.com/jcarcaboso/gas-alerts/internal/usecase"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI the handlers need.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Handlers struct {
	gasUC       *usecase.GasUsecase
	thresholdUC *usecase.ThresholdUsecase
	chatID      int64
	logger      *zap.Logger
}

func NewHandlers(gasUC *usecase.GasUsecase, thresholdUC *usecase.ThresholdUsecase, chatID int64, logger *zap.Logger) *Handlers {
	return &Handlers{gasUC: gasUC, thresholdUC: thresholdUC, chatID: chatID, logger: logger}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api Sender, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Chat == nil {
		return
	}
	chatID := update.Message.Chat.ID
	if chatID != h.chatID {
		h.logger.Debug("message from foreign chat dropped", zap.Int64("chat_id", chatID))
		return
	}

	cmd, ok := ParseCommand(update.Message.Text)
	if !ok {
		return
	}

	h.logger.Info("telegram command received", zap.Int64("chat_id", chatID), zap.Stringer("command", cmd.Kind))
	h.reply(api, chatID, h.Respond(ctx, cmd))
}

// Respond runs cmd and returns the reply text. Failures of one command end
// up in the reply and the log, never in the caller.
func (h *Handlers) Respond(ctx context.Context, cmd Command) string {
	switch cmd.Kind {
	case CommandCheckGas:
		reading, err := h.gasUC.CurrentPrice(ctx)
		if err != nil {
			h.logger.Warn("checkgas failed", zap.Error(err))
			return h.errorMessage(err)
		}
		h.logger.Info("checkgas complete", zap.String("wei", reading.Wei.String()))
		return fmt.Sprintf("Current gas price: %s gwei", reading.Gwei())
	case CommandSetGasAlert:
		wei, err := h.thresholdUC.SetAlert(ctx, cmd.Gwei)
		if err != nil {
			h.logger.Warn("setgasalert failed", zap.Uint64("gwei", cmd.Gwei), zap.Error(err))
			return h.errorMessage(err)
		}
		h.logger.Info("setgasalert complete", zap.Uint64("gwei", cmd.Gwei), zap.String("wei", wei.String()))
		return fmt.Sprintf("Gas alert threshold set to %d gwei.", cmd.Gwei)
	case CommandListAlerts:
		thresholds, err := h.thresholdUC.ListAlerts(ctx)
		if err != nil {
			h.logger.Warn("alerts list failed", zap.Error(err))
			return h.errorMessage(err)
		}
		return formatThresholds(thresholds)
	case CommandHelp:
		return HelpText
	}

	h.logger.Warn("unhandled command", zap.Stringer("command", cmd.Kind))
	return HelpText
}

func (h *Handlers) errorMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrGasPriceUnavailable):
		return "Failed to fetch gas price. Please try again."
	case errors.Is(err, domain.ErrThresholdsUnreadable):
		return "Stored alerts are unreadable. Fix the thresholds file and retry."
	}
	return "Failed to save gas alert. Please try again."
}

func formatThresholds(thresholds []*big.Int) string {
	if len(thresholds) == 0 {
		return "No gas alert thresholds set."
	}
	var builder strings.Builder
	builder.WriteString("Gas alert thresholds:\n")
	for _, wei := range thresholds {
		builder.WriteString(fmt.Sprintf("- %s gwei\n", domain.FormatGwei(wei)))
	}
	return strings.TrimRight(builder.String(), "\n")
}

func (h *Handlers) reply(api Sender, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

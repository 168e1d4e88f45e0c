// Package notifier pushes run-completion messages to an operator Telegram
// chat when one is configured.
package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fbresponse/internal/config"
	"fbresponse/internal/models"
)

// TelegramNotifier sends run summaries to a fixed chat. A nil notifier is the
// disabled state; every method tolerates it.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegram creates a notifier, or (nil, nil) when notifications are
// disabled in the config.
func NewTelegram(cfg *config.Config, logger *zap.Logger) (*TelegramNotifier, error) {
	if !cfg.Telegram.Enabled || cfg.Telegram.BotToken == "" {
		logger.Info("Telegram notifier is disabled (telegram.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &TelegramNotifier{
		api:    botAPI,
		chatID: cfg.Telegram.ChatID,
		logger: logger,
	}, nil
}

// NotifyRunCompleted sends a short summary of a finished processing run.
func (n *TelegramNotifier) NotifyRunCompleted(run *models.Run) {
	if n == nil {
		return
	}

	text := fmt.Sprintf("留言處理完成\nRun: %s\n留言數: %d\n貼文數: %d\n失敗貼文: %d",
		run.ID, run.TotalComments, run.TotalPosts, run.FailedPosts)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("Failed to send run notification", zap.Error(err), zap.String("run_id", run.ID))
	}
}

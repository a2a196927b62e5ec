package telegram

import (
	"context"
	"fmt"
	"log"

	"telegram-sport-subscription/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.TelegramBotAdapter for local/dev runs.
// It logs instead of calling Telegram.
type NoopBotAdapter struct{}

func NewNoopBotAdapter() *NoopBotAdapter {
	return &NoopBotAdapter{}
}

func (b *NoopBotAdapter) CreateInviteLink(ctx context.Context, chatID int64) (string, error) {
	link := fmt.Sprintf("https://t.me/+noop-%d", chatID)
	log.Printf("[noop-telegram] invite link for chat %d: %s", chatID, link)
	return link, nil
}

func (b *NoopBotAdapter) SendButtons(ctx context.Context, tgID int64, text string, rows [][]adapter.InlineButton) error {
	log.Printf("[noop-telegram] to user %d: %s [buttons: %v]", tgID, text, rows)
	return nil
}

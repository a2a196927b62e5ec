package adapter

import "context"

type InlineButton struct {
	Text string
	Data string
	URL  string
}

// TelegramBotAdapter is the notification channel port. Implementations are
// long-lived and injected once at startup; business code never constructs a
// bot client per call.
type TelegramBotAdapter interface {
	// CreateInviteLink issues a single-use, non-expiring invite to chatID
	// that does not require join approval.
	CreateInviteLink(ctx context.Context, chatID int64) (string, error)
	SendButtons(ctx context.Context, telegramID int64, text string, rows [][]InlineButton) error
}

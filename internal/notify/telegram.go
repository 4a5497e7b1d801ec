package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxTelegramMessage = 4096

// Telegram sends notices to a single chat. Outbound only; the bot
// never polls for updates.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram creates the channel from a bot token and chat id.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat id is required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Send(ctx context.Context, n Notice) error {
	text := formatNotice(n)
	for _, part := range splitMessage(text) {
		msg := tgbotapi.NewMessage(t.chatID, part)
		msg.ParseMode = "Markdown"
		if _, err := t.bot.Send(msg); err != nil {
			// Retry without markdown; payload snippets often contain
			// characters Telegram rejects as broken markup.
			msg.ParseMode = ""
			if _, err := t.bot.Send(msg); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}
	return nil
}

func formatNotice(n Notice) string {
	text := "*" + n.Title + "*"
	if n.ThreadID != "" {
		text += fmt.Sprintf("\nThread: %s", n.ThreadID)
	}
	if n.Body != "" {
		text += "\n\n" + n.Body
	}
	return text
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}

package telegram

import (
	"context"

	"gopkg.in/telebot.v3"
)

// Client defines an interface for sending messages via a Telegram bot.
// This keeps the poll loop independent of the bot library.
type Client interface {
	SendMessage(ctx context.Context, chatID int64, text string, options *telebot.SendOptions) error
}

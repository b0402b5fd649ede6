// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Telegram allows about one message per second into a single chat.
const defaultSendInterval = time.Second

// Sender is the subset of *telebot.Bot used by the adapter.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot     Sender
	limiter *rate.Limiter
}

func NewTelebotAdapter(b Sender) *TelebotAdapter {
	return &TelebotAdapter{
		bot:     b,
		limiter: rate.NewLimiter(rate.Every(defaultSendInterval), 1),
	}
}

// SendMessage sends a text message to the given chat.
func (tba *TelebotAdapter) SendMessage(ctx context.Context, chatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}
	if err := tba.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram send to chat %d cancelled: %w", chatID, err)
	}

	recipient := &telebot.Chat{ID: chatID}
	if _, err := tba.bot.Send(recipient, text, options); err != nil {
		return fmt.Errorf("telegram send to chat %d failed: %w", chatID, err)
	}
	return nil
}

// NewBot creates a send-only bot. The token is checked against Telegram unless offline is set.
func NewBot(token string, offline bool, onError func(error, telebot.Context)) (*telebot.Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:   token,
		Offline: offline,
		OnError: onError,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create telegram bot: %w", err)
	}
	return bot, nil
}

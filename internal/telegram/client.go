package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/lumiforge/vidlinkgen-backend/internal/config"
)

// Client отправляет алерты администраторам в Telegram.
// Без токена или chat id все отправки молча пропускаются.
type Client struct {
	bot    *telego.Bot
	chatID int64
}

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.TelegramBotToken == "" || cfg.TelegramAdminChatID == "" {
		return &Client{}, nil
	}

	chatID, err := strconv.ParseInt(cfg.TelegramAdminChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}

	bot, err := telego.NewBot(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Client{bot: bot, chatID: chatID}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.bot != nil
}

func (c *Client) SendAlert(msg string) error {
	if !c.IsConfigured() {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := c.bot.SendMessage(ctx, tu.Message(tu.ID(c.chatID), "🚨 ERROR: "+msg))
	return err
}

// Notify отправляет информационное сообщение (новые тикеты, ручные оплаты)
func (c *Client) Notify(ctx context.Context, msg string) error {
	if !c.IsConfigured() {
		return nil
	}
	_, err := c.bot.SendMessage(ctx, tu.Message(tu.ID(c.chatID), msg))
	return err
}

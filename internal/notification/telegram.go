package notification

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"stock-watchlist/config"
	"stock-watchlist/internal/dto"
	"stock-watchlist/pkg/logger"

	"gopkg.in/telebot.v3"
)

// TelegramSink delivers consolidated alerts to a single chat via the Bot API.
type TelegramSink struct {
	bot    *telebot.Bot
	chatID int64
	log    *logger.Logger
}

func NewTelegramSink(cfg config.TelegramConfig, log *logger.Logger) (*TelegramSink, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: cfg.BotToken})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramSink{
		bot:    bot,
		chatID: cfg.ChatID,
		log:    log,
	}, nil
}

func (s *TelegramSink) Name() string {
	return "telegram"
}

func (s *TelegramSink) Send(ctx context.Context, alerts []dto.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.bot.Send(telebot.ChatID(s.chatID), s.formatHTML(alerts), telebot.ModeHTML)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to send telegram notification", logger.ErrorField(err))
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	s.log.InfoContext(ctx, "Telegram notification sent",
		logger.IntField("alert_count", len(alerts)))
	return nil
}

func (s *TelegramSink) formatHTML(alerts []dto.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>🔔 Stock Alert: %d Target(s) Met</b>\n", len(alerts))
	b.WriteString(strings.Repeat("═", 30) + "\n\n")

	for i, alert := range alerts {
		fmt.Fprintf(&b, "<b>%d. %s</b>\n", i+1, html.EscapeString(alert.Symbol))
		fmt.Fprintf(&b, "<b>Target Type: %s</b>\n", alert.TargetType)
		fmt.Fprintf(&b, "<code>Current Price: $%.2f</code>\n", alert.CurrentPrice)
		fmt.Fprintf(&b, "<code>Target Price: $%.2f</code>\n", alert.TargetPrice)

		b.WriteString(html.EscapeString(alert.Action()) + "\n")
		if alert.AlertNote != nil && *alert.AlertNote != "" {
			fmt.Fprintf(&b, "<i>%s</i>\n", html.EscapeString(*alert.AlertNote))
		}

		if i < len(alerts)-1 {
			b.WriteString("\n" + strings.Repeat("─", 30) + "\n\n")
		}
	}

	fmt.Fprintf(&b, "\n<i>📱 Automated message from your stock watchlist, %s</i>",
		time.Now().Format("2006-01-02 15:04"))
	return b.String()
}

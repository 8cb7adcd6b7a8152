package gateway

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"watson/internal/core/domain"
	"watson/internal/core/port"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

//go:generate mockery --name telegramBot

type telegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
}

// Telegram is a port.Gateway backed by the Telegram Bot API. Telegram stamps messages with
// whole seconds, so latencies measured through it are coarse.
type Telegram struct {
	bot   telegramBot
	start func(ctx context.Context)
	sink  port.EventSink
}

func NewTelegram(token string) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token: %w", domain.ErrConfigurationIncomplete)
	}

	t := &Telegram{}

	b, err := bot.New(token, bot.WithDefaultHandler(t.handleUpdate))
	if err != nil {
		return nil, fmt.Errorf("failed initializing telegram bot: %w", err)
	}

	t.bot = b
	t.start = b.Start

	return t, nil
}

func (t *Telegram) Run(ctx context.Context, sink port.EventSink) error {
	t.sink = sink

	log.Info().Msg("telegram bot listening")
	sink.OnReady(ctx)

	t.start(ctx)

	return nil
}

func (t *Telegram) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if t.sink == nil || update == nil || update.Message == nil {
		return
	}

	msg := update.Message

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	t.sink.OnMessage(ctx, &domain.Message{
		ID:          strconv.Itoa(msg.ID),
		ChannelID:   strconv.FormatInt(msg.Chat.ID, 10),
		AuthorIsBot: msg.From != nil && msg.From.IsBot,
		Text:        text,
		CreatedAt:   time.Unix(int64(msg.Date), 0),
	})
}

func (t *Telegram) Send(ctx context.Context, channelID, text string) (domain.SentMessage, error) {
	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return domain.SentMessage{}, fmt.Errorf("invalid telegram chat ID %q: %w", channelID, err)
	}

	msg, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return domain.SentMessage{}, fmt.Errorf("failed to send telegram message: %w", err)
	}

	return domain.SentMessage{
		ID:        strconv.Itoa(msg.ID),
		ChannelID: channelID,
		CreatedAt: time.Unix(int64(msg.Date), 0),
	}, nil
}

func (t *Telegram) Edit(ctx context.Context, channelID, messageID, text string) error {
	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat ID %q: %w", channelID, err)
	}

	id, err := strconv.Atoi(messageID)
	if err != nil {
		return fmt.Errorf("invalid telegram message ID %q: %w", messageID, err)
	}

	_, err = t.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: id,
		Text:      text,
	})
	if err != nil {
		return fmt.Errorf("failed to edit telegram message: %w", err)
	}

	return nil
}

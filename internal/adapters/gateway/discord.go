package gateway

import (
	"context"
	"errors"
	"fmt"

	"watson/internal/core/domain"
	"watson/internal/core/port"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

//go:generate mockery --name discordSession

type discordSession interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEdit(channelID, messageID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord is a port.Gateway backed by a discordgo session.
type Discord struct {
	session discordSession
}

func NewDiscord(token string) (*Discord, error) {
	if token == "" {
		return nil, fmt.Errorf("discord token: %w", domain.ErrConfigurationIncomplete)
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return &Discord{session: session}, nil
}

func (d *Discord) Run(ctx context.Context, sink port.EventSink) error {
	removeReady := d.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		if r.User != nil {
			log.Info().Str("username", r.User.Username).Str("userId", r.User.ID).Msg("discord bot connected")
		}
		sink.OnReady(ctx)
	})
	defer removeReady()

	removeMessage := d.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		d.handleMessage(ctx, sink, m)
	})
	defer removeMessage()

	if err := d.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	<-ctx.Done()

	log.Info().Msg("closing discord session")

	if err := d.session.Close(); err != nil {
		return fmt.Errorf("failed to close discord session: %w", err)
	}

	return nil
}

func (d *Discord) handleMessage(ctx context.Context, sink port.EventSink, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil {
		return
	}

	sink.OnMessage(ctx, &domain.Message{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		AuthorIsBot: m.Author.Bot,
		Text:        m.Content,
		CreatedAt:   m.Timestamp,
	})
}

func (d *Discord) Send(ctx context.Context, channelID, text string) (domain.SentMessage, error) {
	if channelID == "" {
		return domain.SentMessage{}, errors.New("channel ID is empty")
	}

	msg, err := d.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return domain.SentMessage{}, fmt.Errorf("failed to send discord message: %w", err)
	}

	return domain.SentMessage{ID: msg.ID, ChannelID: msg.ChannelID, CreatedAt: msg.Timestamp}, nil
}

func (d *Discord) Edit(ctx context.Context, channelID, messageID, text string) error {
	_, err := d.session.ChannelMessageEdit(channelID, messageID, text, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to edit discord message: %w", err)
	}

	return nil
}

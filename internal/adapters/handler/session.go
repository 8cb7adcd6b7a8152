package handler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"watson/internal/core/domain"
	"watson/internal/core/domain/command"
	"watson/internal/core/port"
	"watson/internal/core/service"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultDispatchTimeout = 30 * time.Second

type Options struct {
	// Prefix every command must start with. Defaults to domain.DefaultPrefix.
	Prefix string
	// DispatchTimeout bounds the gateway I/O and search of a single dispatch.
	DispatchTimeout time.Duration
}

// Session wires gateway events to the command router and performs the resulting effects.
// Every dispatch runs in its own goroutine, so a slow reply never holds up the next message.
type Session struct {
	router   *command.Router
	caps     service.Capabilities
	gateway  port.Gateway
	reporter port.Reporter
	timeout  time.Duration
	prefix   atomic.Pointer[string]
	inflight sync.WaitGroup
}

func NewSession(router *command.Router, caps service.Capabilities, gateway port.Gateway,
	reporter port.Reporter, opts Options) *Session {
	s := &Session{
		router:   router,
		caps:     caps,
		gateway:  gateway,
		reporter: reporter,
		timeout:  opts.DispatchTimeout,
	}

	if s.timeout <= 0 {
		s.timeout = DefaultDispatchTimeout
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = domain.DefaultPrefix
	}
	s.SetPrefix(prefix)

	return s
}

// SetPrefix changes the command prefix for messages dispatched after the call returns.
func (s *Session) SetPrefix(prefix string) {
	s.prefix.Store(&prefix)
	log.Info().Str("prefix", prefix).Msg("command prefix set")
}

func (s *Session) Prefix() string {
	return *s.prefix.Load()
}

func (s *Session) OnReady(ctx context.Context) {
	s.reporter.Ready(ctx)
}

func (s *Session) OnMessage(ctx context.Context, message *domain.Message) {
	if message == nil {
		return
	}

	prefix := s.Prefix()

	effect := s.router.Handle(message, prefix, s.caps)
	if _, ok := effect.(domain.NoOp); ok {
		return
	}

	line, _ := domain.StripPrefix(message.Text, prefix)

	l := log.With().
		Str("dispatchId", uuid.Must(uuid.NewV4()).String()).
		Str("messageId", message.ID).
		Str("channelId", message.ChannelID).
		Stringer("command", domain.ParseCommand(line)).
		Logger()

	l.Debug().Msg("received command")

	s.inflight.Add(1)

	go func() {
		defer s.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				l.Error().Interface("panic", r).Msg("dispatch panicked")
			}
		}()

		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		err := s.perform(l.WithContext(dctx), message, effect)
		if err != nil {
			l.Error().Err(err).Msg("failed to respond to command")
		}
	}()
}

// Wait blocks until every dispatch started so far has finished.
func (s *Session) Wait() {
	s.inflight.Wait()
}

func (s *Session) perform(ctx context.Context, message *domain.Message, effect domain.Effect) error {
	l := zerolog.Ctx(ctx)

	switch e := effect.(type) {
	case domain.Send:
		return s.send(ctx, message, e.Text)
	case domain.SendAsync:
		return s.send(ctx, message, e.Task(ctx))
	case domain.SendThenEdit:
		sent, err := s.gateway.Send(ctx, message.ChannelID, e.Initial)
		if err != nil {
			l.Error().Err(err).Msg(domain.ErrSendingReplyFailed.Error())
			return err
		}

		latency := sent.CreatedAt.Sub(message.CreatedAt)
		l.Debug().Dur("latency", latency).Msg("reply acknowledged")

		channelID := sent.ChannelID
		if channelID == "" {
			channelID = message.ChannelID
		}

		return s.gateway.Edit(ctx, channelID, sent.ID, e.Edit(latency))
	case domain.NoOp:
		return nil
	}

	return nil
}

func (s *Session) send(ctx context.Context, message *domain.Message, text string) error {
	_, err := s.gateway.Send(ctx, message.ChannelID, text)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg(domain.ErrSendingReplyFailed.Error())
		return err
	}

	return nil
}

package port

import (
	"context"
	"watson/internal/core/domain"
)

type Gateway interface {
	// Send posts text to a channel and returns the gateway's acknowledgement of the new message.
	Send(ctx context.Context, channelID, text string) (domain.SentMessage, error)
	// Edit replaces the text of a previously sent message.
	Edit(ctx context.Context, channelID, messageID, text string) error
	// Run connects, delivers events to sink and blocks until ctx is cancelled.
	Run(ctx context.Context, sink EventSink) error
}

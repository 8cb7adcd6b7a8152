package port

import (
	"context"
	"watson/internal/core/domain"
)

type EventSink interface {
	// OnReady is invoked once the gateway connection is established.
	OnReady(ctx context.Context)
	// OnMessage is invoked for every inbound message. Implementations must not block the gateway.
	OnMessage(ctx context.Context, message *domain.Message)
}

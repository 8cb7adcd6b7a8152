package domain

import (
	"context"
	"time"
)

// Effect is the declarative outcome of a dispatch. The caller performs the I/O.
type Effect interface {
	effect()
}

// NoOp means the message is ignored.
type NoOp struct{}

// Send replies once with Text.
type Send struct {
	Text string
}

// SendThenEdit replies with Initial, then edits that reply once the gateway has
// acknowledged it. Edit receives the time between the inbound message and the
// acknowledged reply.
type SendThenEdit struct {
	Initial string
	Edit    func(latency time.Duration) string
}

// SendAsync runs Task off the event loop and replies with its result.
type SendAsync struct {
	Task func(ctx context.Context) string
}

func (NoOp) effect()         {}
func (Send) effect()         {}
func (SendThenEdit) effect() {}
func (SendAsync) effect()    {}

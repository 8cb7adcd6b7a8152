package gateway

import (
	"context"
	"sync"

	"watson/internal/core/domain"
)

type recordingSink struct {
	mu       sync.Mutex
	ready    int
	messages []*domain.Message
}

func (r *recordingSink) OnReady(_ context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ready++
}

func (r *recordingSink) OnMessage(_ context.Context, message *domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recordingSink) snapshot() (int, []*domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready, append([]*domain.Message(nil), r.messages...)
}


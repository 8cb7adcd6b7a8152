package domain

import "time"

// Message is a single inbound chat message as delivered by a gateway.
type Message struct {
	ID          string
	ChannelID   string
	AuthorIsBot bool
	Text        string
	CreatedAt   time.Time
}

// SentMessage is the gateway's acknowledgement of an outbound message.
type SentMessage struct {
	ID        string
	ChannelID string
	CreatedAt time.Time
}

type VideoResult struct {
	Title       string
	Description string
	URL         string
	Duration    time.Duration
}

// Config is built once at startup and never mutated.
type Config struct {
	GatewayToken string
	SearchAPIKey string
}

// HasSearch reports whether the search capability should be constructed.
func (c Config) HasSearch() bool {
	return c.SearchAPIKey != ""
}

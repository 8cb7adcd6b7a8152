package command

import (
	"context"
	"fmt"
	"time"

	"watson/internal/core/domain"
	"watson/internal/core/service"
)

const (
	speakReply     = "Woof!"
	pingStub       = "Pong!"
	pingTemplate   = "Pong! (%dms)"
	noResults      = "No results found."
	noResultsQuery = "No results found for %q."
)

const DefaultSearchTimeout = 10 * time.Second

// Router turns one inbound message into one Effect. It performs no I/O itself.
type Router struct {
	searchLimit   int
	searchTimeout time.Duration
}

func NewRouter(searchLimit int, searchTimeout time.Duration) *Router {
	if searchLimit <= 0 {
		searchLimit = domain.DefaultSearchLimit
	}

	if searchTimeout <= 0 {
		searchTimeout = DefaultSearchTimeout
	}

	return &Router{searchLimit: searchLimit, searchTimeout: searchTimeout}
}

// Handle classifies message against prefix and returns the effect to perform.
func (r *Router) Handle(message *domain.Message, prefix string, caps service.Capabilities) domain.Effect {
	if message == nil || message.AuthorIsBot {
		return domain.NoOp{}
	}

	line, ok := domain.StripPrefix(message.Text, prefix)
	if !ok {
		return domain.NoOp{}
	}

	switch domain.ParseCommand(line) {
	case domain.Speak:
		return speak()
	case domain.Ping:
		return ping()
	case domain.SearchVideo:
		return r.search(domain.ParseCommandArgs(line), caps)
	case domain.Unknown:
		return domain.NoOp{}
	}

	return domain.NoOp{}
}

func speak() domain.Effect {
	return domain.Send{Text: speakReply}
}

func ping() domain.Effect {
	return domain.SendThenEdit{
		Initial: pingStub,
		Edit:    FormatLatency,
	}
}

// FormatLatency renders a ping reply. Negative latencies caused by clock skew are reported as 0.
func FormatLatency(latency time.Duration) string {
	ms := latency.Milliseconds()
	if ms < 0 {
		ms = 0
	}

	return fmt.Sprintf(pingTemplate, ms)
}

func (r *Router) search(query string, caps service.Capabilities) domain.Effect {
	switch c := caps.(type) {
	case service.Available:
		return domain.SendAsync{Task: func(ctx context.Context) string {
			ctx, cancel := context.WithTimeout(ctx, r.searchTimeout)
			defer cancel()

			results, err := c.Search.Search(ctx, query, r.searchLimit)
			if err != nil || len(results) == 0 {
				return noResultsReply(query)
			}

			return FormatVideo(results[0])
		}}
	case service.Unavailable:
		return domain.NoOp{}
	}

	return domain.NoOp{}
}

func noResultsReply(query string) string {
	if query == "" {
		return noResults
	}

	return fmt.Sprintf(noResultsQuery, query)
}

// FormatVideo renders a single search hit as "<title> (<duration>)\n<url>".
func FormatVideo(video domain.VideoResult) string {
	return fmt.Sprintf("%s (%s)\n%s", video.Title, formatDuration(video.Duration), video.URL)
}

func formatDuration(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	if total < 0 {
		total = 0
	}

	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}

	return fmt.Sprintf("%d:%02d", m, s)
}

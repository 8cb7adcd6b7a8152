package search

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"watson/internal/core/domain"

	"github.com/rs/zerolog/log"
	"github.com/sosodev/duration"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const watchURL = "https://www.youtube.com/watch?v="

// YouTube searches videos through the YouTube Data API v3.
type YouTube struct {
	service *youtube.Service
}

// NewYouTube builds the API client. No request is made until the first search.
func NewYouTube(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTube, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)

	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed creating youtube service: %w", err)
	}

	return &YouTube{service: svc}, nil
}

func (y *YouTube) Search(ctx context.Context, query string, limit int) ([]domain.VideoResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	l := log.With().Str("query", query).Int("limit", limit).Logger()

	resp, err := y.service.Search.List([]string{"id", "snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		l.Debug().Err(err).Msg("youtube search request failed")
		return nil, classify(ctx, err)
	}

	results := make([]domain.VideoResult, 0, len(resp.Items))
	ids := make([]string, 0, len(resp.Items))

	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}

		ids = append(ids, item.Id.VideoId)
		results = append(results, domain.VideoResult{
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			URL:         watchURL + item.Id.VideoId,
		})
	}

	if len(ids) == 0 {
		return results, nil
	}

	durations, err := y.durations(ctx, ids)
	if err != nil {
		l.Debug().Err(err).Msg("youtube video details request failed")
		return nil, classify(ctx, err)
	}

	for i, id := range ids {
		results[i].Duration = durations[id]
	}

	l.Debug().Int("results", len(results)).Msg("youtube search done")

	return results, nil
}

func (y *YouTube) durations(ctx context.Context, ids []string) (map[string]time.Duration, error) {
	resp, err := y.service.Videos.List([]string{"contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	durations := make(map[string]time.Duration, len(resp.Items))
	for _, video := range resp.Items {
		if video.ContentDetails == nil {
			continue
		}

		d, err := parseDuration(video.ContentDetails.Duration)
		if err != nil {
			log.Warn().Err(err).Str("videoId", video.Id).Msg("unparseable video duration")
			continue
		}

		durations[video.Id] = d
	}

	return durations, nil
}

// parseDuration converts an ISO-8601 duration such as "PT4M13S".
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	d, err := duration.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	return d.ToTimeDuration(), nil
}

var (
	authReasons = map[string]bool{
		"keyInvalid":          true,
		"keyExpired":          true,
		"forbidden":           true,
		"accessNotConfigured": true,
		"ipRefererBlocked":    true,
	}
	quotaReasons = map[string]bool{
		"quotaExceeded":      true,
		"dailyLimitExceeded": true,
		"rateLimitExceeded":  true,
	}
)

// classify maps provider errors onto domain.SearchFailedError.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.SearchFailed(domain.ReasonTimeout, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		for _, item := range apiErr.Errors {
			if authReasons[item.Reason] {
				return domain.SearchFailed(domain.ReasonAuth, err)
			}

			if quotaReasons[item.Reason] {
				return domain.SearchFailed(domain.ReasonQuota, err)
			}
		}

		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.SearchFailed(domain.ReasonAuth, err)
		case http.StatusTooManyRequests:
			return domain.SearchFailed(domain.ReasonQuota, err)
		}

		return domain.SearchFailed(domain.ReasonProvider, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return domain.SearchFailed(domain.ReasonTimeout, err)
		}

		return domain.SearchFailed(domain.ReasonNetwork, err)
	}

	return domain.SearchFailed(domain.ReasonProvider, err)
}

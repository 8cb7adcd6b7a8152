package reporter

import (
	"context"

	"github.com/rs/zerolog"
)

// Log reports lifecycle events as structured log lines.
type Log struct {
	logger zerolog.Logger
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Ready(_ context.Context) {
	l.logger.Info().Msg("bot ready")
}

func (l *Log) CapabilityInitialized(_ context.Context, name string) {
	l.logger.Info().Str("capability", name).Msg("capability initialized")
}

func (l *Log) CapabilityUnavailable(_ context.Context, name string) {
	l.logger.Info().Str("capability", name).Msg("no api key configured, capability disabled")
}

func (l *Log) CapabilityDegraded(_ context.Context, name string, err error) {
	l.logger.Warn().Err(err).Str("capability", name).Msg("capability degraded")
}

func (l *Log) SearchFailed(_ context.Context, query string, err error) {
	l.logger.Warn().Err(err).Str("query", query).Msg("search failed")
}

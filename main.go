package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"watson/internal/adapters/config"
	"watson/internal/adapters/gateway"
	"watson/internal/adapters/handler"
	"watson/internal/adapters/reporter"
	"watson/internal/adapters/search"
	"watson/internal/core/domain/command"
	"watson/internal/core/port"
	"watson/internal/core/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Info().Msg("starting watson...")

	log.Info().Msg("reading config file...")
	cfg, err := config.Load(config.New(os.Getenv("WATSON_CONFIG")))
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var gw port.Gateway

	switch cfg.Gateway {
	case config.GatewayTelegram:
		gw, err = gateway.NewTelegram(cfg.Core.GatewayToken)
	default:
		gw, err = gateway.NewDiscord(cfg.Core.GatewayToken)
	}
	if err != nil {
		log.Fatal().Err(err).Str("gateway", cfg.Gateway).Msg("failed initializing gateway")
	}

	rep := reporter.NewLog(log.Logger)

	caps := service.InitializeCapabilities(ctx, cfg.Core, func(apiKey string) (port.VideoSearcher, error) {
		return search.NewYouTube(ctx, apiKey)
	}, rep)

	router := command.NewRouter(cfg.SearchLimit, cfg.SearchTimeout)

	session := handler.NewSession(router, caps, gw, rep, handler.Options{
		Prefix:          cfg.Prefix,
		DispatchTimeout: cfg.DispatchTimeout,
	})

	log.Info().Str("gateway", cfg.Gateway).Msg("bot listening")

	if err := serve(ctx, gw, session); err != nil {
		cancel()
		log.Fatal().Err(err).Str("gateway", cfg.Gateway).Msg("gateway stopped")
	}

	log.Info().Msg("watson stopped")
}

// serve runs the gateway until ctx is done, then waits for in-flight dispatches. The gateway's
// error is returned so main can exit non-zero.
func serve(ctx context.Context, gw port.Gateway, session *handler.Session) error {
	err := gw.Run(ctx, session)

	session.Wait()

	if err != nil {
		return fmt.Errorf("gateway run failed: %w", err)
	}

	return nil
}

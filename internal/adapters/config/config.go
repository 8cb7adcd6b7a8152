package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"watson/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	GatewayDiscord  = "discord"
	GatewayTelegram = "telegram"

	EnvPrefix = "WATSON"
)

// Config is everything main needs to assemble the bot.
type Config struct {
	Core            domain.Config
	Gateway         string
	Prefix          string
	LogLevel        zerolog.Level
	SearchLimit     int
	SearchTimeout   time.Duration
	DispatchTimeout time.Duration
}

// New returns a viper instance reading config.json from path (a file or a directory),
// with WATSON_* environment overrides.
func New(path string) *viper.Viper {
	v := viper.New()

	if strings.HasSuffix(path, ".json") {
		v.SetConfigFile(path)
	} else {
		if path == "" {
			path = "."
		}
		v.AddConfigPath(path)
		v.SetConfigName("config")
	}

	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("bot.gateway", GatewayDiscord)
	v.SetDefault("bot.prefix", domain.DefaultPrefix)
	v.SetDefault("bot.log_level", "info")
	v.SetDefault("bot.search_limit", domain.DefaultSearchLimit)
	v.SetDefault("bot.search_timeout", "10s")
	v.SetDefault("bot.dispatch_timeout", "30s")

	return v
}

// Load reads the config file and validates it. A missing gateway token is reported as
// domain.ErrConfigurationIncomplete; a missing search key is not an error.
func Load(v *viper.Viper) (Config, error) {
	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("could not read config file: %w", err)
		}
	}

	cfg := Config{
		Gateway:     strings.ToLower(v.GetString("bot.gateway")),
		Prefix:      v.GetString("bot.prefix"),
		LogLevel:    parseLevel(v.GetString("bot.log_level")),
		SearchLimit: v.GetInt("bot.search_limit"),
	}

	cfg.SearchTimeout, err = time.ParseDuration(v.GetString("bot.search_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid search timeout in config: %w", err)
	}

	cfg.DispatchTimeout, err = time.ParseDuration(v.GetString("bot.dispatch_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dispatch timeout in config: %w", err)
	}

	switch cfg.Gateway {
	case GatewayDiscord:
		cfg.Core.GatewayToken = v.GetString("discord.token")
	case GatewayTelegram:
		cfg.Core.GatewayToken = v.GetString("telegram.token")
	default:
		return Config{}, fmt.Errorf("unknown gateway %q", cfg.Gateway)
	}

	if cfg.Core.GatewayToken == "" {
		return Config{}, fmt.Errorf("%s token missing: %w", cfg.Gateway, domain.ErrConfigurationIncomplete)
	}

	cfg.Core.SearchAPIKey = strings.TrimSpace(v.GetString("youtube.apikey"))

	return cfg, nil
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

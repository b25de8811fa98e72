package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"discord-audit-relay/models"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var (
	// ErrNoDestination is returned when relay.destination_channel_id is empty.
	ErrNoDestination = errors.New("relay.destination_channel_id is not set")
	// ErrBadDestination is returned when the destination is not a snowflake.
	ErrBadDestination = errors.New("relay.destination_channel_id is not a valid channel ID")
)

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot_token", "")
	v.SetDefault("bot.adminChannelId", "")
	v.SetDefault("relay.destination_channel_id", "")
	v.SetDefault("relay.ignored_role_names", []string{"Bot 🤖"})
	v.SetDefault("relay.max_attachments", 5)
	v.SetDefault("relay.history_window", 100)
	v.SetDefault("relay.message_cache", 1000)
	v.SetDefault("relay.stats_schedule", "@hourly")
	v.SetDefault("relay.health_addr", "")
	v.SetDefault("relay.amqp.url", "")
	v.SetDefault("relay.amqp.exchange", "audit")
	v.SetDefault("commands.auth.developers", []string{})
	v.SetDefault("commands.auth.admin_roles", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// LoadConfig loads configuration from, in increasing priority:
// defaults, the config file, .env and the process environment.
// An empty path looks for config.yaml in the working directory; a missing
// file is not an error in that case.
func LoadConfig(path string, log zerolog.Logger) (models.RelayConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, skipping")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return models.RelayConfig{}, fmt.Errorf("error reading config file: %w", err)
		}
		log.Info().Msg("Config file not found, using environment variables and defaults.")
	}

	return decode(v)
}

func decode(v *viper.Viper) (models.RelayConfig, error) {
	var cfg models.RelayConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return models.RelayConfig{}, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.AdminChannelID = v.GetString("bot.adminChannelId")
	return cfg, nil
}

// Validate checks the settings the relay cannot run without.
func Validate(cfg models.RelayConfig) error {
	dest := cfg.Relay.DestinationChannelID
	if dest == "" {
		return ErrNoDestination
	}
	if _, err := strconv.ParseUint(dest, 10, 64); err != nil {
		return fmt.Errorf("%w: %q", ErrBadDestination, dest)
	}
	if cfg.Relay.MaxAttachments < 0 || cfg.Relay.HistoryWindow < 0 {
		return errors.New("relay.max_attachments and relay.history_window must not be negative")
	}
	if cfg.Relay.HistoryWindow > 100 {
		return errors.New("relay.history_window cannot exceed 100, the size of one history page")
	}
	return nil
}

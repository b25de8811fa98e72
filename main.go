package main

import (
	"fmt"
	"os"

	"discord-audit-relay/bot"
	"discord-audit-relay/command"
	"discord-audit-relay/config"
	"discord-audit-relay/handlers"
	"discord-audit-relay/models"
	"discord-audit-relay/utils"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "discord-audit-relay",
		Short:         "Mirror message creates, edits and deletes into a Discord audit channel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: ./config.yaml)")

	root.AddCommand(runCmd())
	root.AddCommand(checkConfigCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig() (models.RelayConfig, zerolog.Logger, error) {
	bootLog := utils.NewLogger(models.LogSection{})
	cfg, err := config.LoadConfig(configPath, bootLog)
	if err != nil {
		return cfg, bootLog, err
	}
	if err := config.Validate(cfg); err != nil {
		return cfg, bootLog, err
	}
	return cfg, utils.NewLogger(cfg.Log), nil
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and start relaying",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			return bot.Run(cfg, log, handlers.Register, command.All())
		},
	}
}

func checkConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Load and validate the configuration without connecting",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Token == "" {
				log.Warn().Msg("BOT_TOKEN is not set; run will fail")
			}
			log.Info().
				Str("destination_channel_id", cfg.Relay.DestinationChannelID).
				Strs("ignored_role_names", cfg.Relay.IgnoredRoleNames).
				Int("max_attachments", cfg.Relay.MaxAttachments).
				Int("history_window", cfg.Relay.HistoryWindow).
				Bool("amqp", cfg.Relay.AMQP.URL != "").
				Str("health_addr", cfg.Relay.HealthAddr).
				Msg("Configuration OK")
			return nil
		},
	}
}

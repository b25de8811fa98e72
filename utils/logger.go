package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"discord-audit-relay/models"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const (
	ColorInfo  = 0x00ff00 // Green
	ColorWarn  = 0xffff00 // Yellow
	ColorError = 0xff0000 // Red
)

var (
	mu        sync.RWMutex
	session   *discordgo.Session
	channelID string
	logger    = zerolog.Nop()
)

// NewLogger builds the process logger from the log section of the config.
func NewLogger(cfg models.LogSection) zerolog.Logger {
	var out io.Writer = os.Stderr
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// InitLogger wires the admin channel logger to a Discord session.
func InitLogger(s *discordgo.Session, adminChannelID string, log zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	session = s
	channelID = adminChannelID
	logger = log
	if channelID == "" {
		log.Warn().Msg("bot.adminChannelId is not set. Logging to channel will be disabled.")
	}
}

// Log sends a log message to the admin channel and the process log.
func Log(level, module, operation, details string) {
	mu.RLock()
	s, ch, log := session, channelID, logger
	mu.RUnlock()

	log.WithLevel(zerologLevel(level)).
		Str("module", module).
		Str("operation", operation).
		Msg(details)

	if s == nil || ch == "" {
		return
	}

	_, err := s.ChannelMessageSendEmbed(ch, NewLogEmbed(level, module, operation, details))
	if err != nil {
		log.Error().Err(err).Msg("Error sending log message to Discord")
	}
}

// NewLogEmbed renders an admin log entry.
func NewLogEmbed(level, module, operation, details string) *discordgo.MessageEmbed {
	var color int
	switch level {
	case "INFO":
		color = ColorInfo
	case "WARN":
		color = ColorWarn
	case "ERROR":
		color = ColorError
	default:
		color = ColorInfo
	}

	return &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Log Level: %s", level),
		Color:     color,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Module",
				Value:  module,
				Inline: true,
			},
			{
				Name:   "Operation",
				Value:  operation,
				Inline: true,
			},
			{
				Name:  "Details",
				Value: details,
			},
		},
	}
}

func zerologLevel(level string) zerolog.Level {
	switch level {
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Info logs an informational message.
func Info(module, operation, details string) {
	Log("INFO", module, operation, details)
}

// Warn logs a warning message.
func Warn(module, operation, details string) {
	Log("WARN", module, operation, details)
}

// Error logs an error message.
func Error(module, operation, details string) {
	Log("ERROR", module, operation, details)
}

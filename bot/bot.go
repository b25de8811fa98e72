package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"discord-audit-relay/grpc"
	"discord-audit-relay/models"
	"discord-audit-relay/pubsub"
	"discord-audit-relay/relay"
	"discord-audit-relay/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ErrNoToken is returned when no bot token is configured.
var ErrNoToken = errors.New("no bot token provided")

// defaultMessageCache is how many messages per channel the state keeps so
// that edit and delete events carry the previous message.
const defaultMessageCache = 1000

// Command defines the interface for a bot command.
type Command interface {
	Definition() *discordgo.ApplicationCommand
	Handler(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate)
}

// Bot encapsulates the bot's state.
type Bot struct {
	Session   *discordgo.Session
	Config    models.RelayConfig
	Commands  map[string]Command
	Stats     *relay.Stats
	Converter *Converter
	Log       zerolog.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	router    atomic.Pointer[relay.Router]
	cron      *cron.Cron
	health    *grpc.HealthServer
	publisher *pubsub.Publisher
}

// NewBot creates and initializes a new Bot instance.
func NewBot(cfg models.RelayConfig, log zerolog.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, ErrNoToken
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsMessageContent
	dg.State.MaxMessageCount = cfg.Relay.MessageCache
	if dg.State.MaxMessageCount <= 0 {
		dg.State.MaxMessageCount = defaultMessageCache
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		Session:   dg,
		Config:    cfg,
		Commands:  make(map[string]Command),
		Stats:     &relay.Stats{},
		Converter: NewConverter(dg),
		Log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// RegisterCommands registers the provided commands.
func (b *Bot) RegisterCommands(commands []Command) {
	for _, cmd := range commands {
		b.Commands[cmd.Definition().Name] = cmd
	}
}

// Router returns the event router, or nil before the session is ready.
func (b *Bot) Router() *relay.Router {
	return b.router.Load()
}

// Context is canceled when the bot stops.
func (b *Bot) Context() context.Context {
	return b.ctx
}

// Start opens the bot's session and registers handlers.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	registerHandlers(b)

	if err := b.startHealth(); err != nil {
		return err
	}

	err := b.Session.Open()
	if err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	opts := []relay.Option{
		relay.WithObserver(b.Stats),
		relay.WithLogger(b.Log.With().Str("component", "router").Logger()),
	}
	if b.Config.Relay.AMQP.URL != "" {
		pub, err := pubsub.New(b.Config.Relay.AMQP.URL, b.Config.Relay.AMQP.Exchange, b.Log)
		if err != nil {
			b.Log.Error().Err(err).Msg("AMQP fan-out disabled")
		} else {
			b.publisher = pub
			opts = append(opts, relay.WithObserver(pub))
		}
	}
	mirror := relay.NewMirror(b.Config.Relay.MaxAttachments, b.Log)
	b.router.Store(relay.NewRouter(b.Config, b.Session.State.User.ID, NewDiscordSink(b.Session), mirror, opts...))

	// Register slash commands
	for _, cmd := range b.Commands {
		_, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", cmd.Definition())
		if err != nil {
			b.Log.Warn().Err(err).Str("command", cmd.Definition().Name).Msg("Cannot create command")
		}
	}

	if err := b.startScheduler(); err != nil {
		return err
	}

	utils.InitLogger(b.Session, b.Config.AdminChannelID, b.Log)
	utils.Info("bot", "Start", fmt.Sprintf("Audit relay writing to <#%s>", b.Config.Relay.DestinationChannelID))
	if b.health != nil {
		b.health.SetServing(true)
	}

	b.Log.Info().Msg("Bot is now running. Press CTRL-C to exit.")
	return nil
}

func (b *Bot) startHealth() error {
	if b.Config.Relay.HealthAddr == "" {
		return nil
	}
	h, err := grpc.Listen(b.Config.Relay.HealthAddr, b.Log)
	if err != nil {
		return fmt.Errorf("error starting health server: %w", err)
	}
	b.health = h
	return nil
}

// Stop gracefully closes the bot's session.
func (b *Bot) Stop() {
	if b.health != nil {
		b.health.SetServing(false)
	}
	b.stopScheduler()
	b.cancel()
	if b.Session != nil {
		b.Session.Close()
	}
	if b.publisher != nil {
		if err := b.publisher.Close(); err != nil {
			b.Log.Warn().Err(err).Msg("Error closing AMQP connection")
		}
	}
	if b.health != nil {
		b.health.Stop()
	}
	b.Log.Info().Msg("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(cfg models.RelayConfig, log zerolog.Logger, registerHandlers func(*Bot), commands []Command) error {
	bot, err := NewBot(cfg, log)
	if err != nil {
		return fmt.Errorf("error initializing bot: %w", err)
	}

	bot.RegisterCommands(commands)

	if err := bot.Start(registerHandlers); err != nil {
		bot.Stop()
		return fmt.Errorf("error starting bot: %w", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
	return nil
}

package pubsub

import (
	"context"
	"encoding/json"
	"time"

	"discord-audit-relay/models"
	"discord-audit-relay/relay"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	defaultExchange = "audit"
	publishTimeout  = 5 * time.Second
)

// Meta describes the audit entry carried by an Envelope.
type Meta struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	MessageID string    `json:"message_id"`
	GuildID   string    `json:"guild_id"`
	ChannelID string    `json:"channel_id"`
	EntryID   string    `json:"entry_id"`
	Replied   bool      `json:"replied"`
	At        time.Time `json:"at"`
}

// Data is the payload of an Envelope.
type Data struct {
	Text string `json:"text"`
}

// Envelope is the JSON body published for each audit entry.
type Envelope struct {
	Meta Meta `json:"meta"`
	Data Data `json:"data"`
}

// Publisher fans posted audit entries out to a RabbitMQ topic exchange.
type Publisher struct {
	conn     *amqp091.Connection
	exchange string
	log      zerolog.Logger
}

// New dials url and declares the exchange.
func New(url, exchange string, log zerolog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = defaultExchange
	}
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(
		exchange, "topic", true, false, false, false, nil,
	); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{
		conn:     conn,
		exchange: exchange,
		log:      log.With().Str("component", "pubsub").Logger(),
	}, nil
}

// Handled implements relay.Observer. Only posted entries are published, and
// failures are logged without touching the Discord side.
func (p *Publisher) Handled(ctx context.Context, ev models.Event, outcome relay.Outcome, entry *models.LogEntry) {
	env, ok := NewEnvelope(ev, outcome, entry, time.Now())
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, RoutingKey(ev.Kind), env); err != nil {
		p.log.Warn().Err(err).Str("message_id", env.Meta.MessageID).Msg("Failed to publish audit entry")
	}
}

// Publish sends one envelope.
func (p *Publisher) Publish(ctx context.Context, key string, env Envelope) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(
		ctx, p.exchange, key, false, false,
		amqp091.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp091.Persistent,
			MessageId:     env.Meta.ID,
			CorrelationId: env.Meta.MessageID,
			Timestamp:     env.Meta.At,
			Body:          body,
		},
	)
	if err == nil {
		p.log.Debug().Str("key", key).Str("exchange", p.exchange).Msg("published")
	}
	return err
}

// Close closes the connection.
func (p *Publisher) Close() error {
	return p.conn.Close()
}

// RoutingKey is "audit.<kind>".
func RoutingKey(kind models.EventKind) string {
	return "audit." + kind.String()
}

// NewEnvelope builds the message for a handled event. It reports false when
// nothing was posted.
func NewEnvelope(ev models.Event, outcome relay.Outcome, entry *models.LogEntry, at time.Time) (Envelope, bool) {
	if entry == nil || (outcome != relay.OutcomePosted && outcome != relay.OutcomeReplied) {
		return Envelope{}, false
	}
	subject := ev.Subject()
	if subject == nil {
		return Envelope{}, false
	}
	return Envelope{
		Meta: Meta{
			ID:        uuid.NewString(),
			Kind:      ev.Kind.String(),
			MessageID: subject.ID,
			GuildID:   subject.GuildID,
			ChannelID: subject.ChannelID,
			EntryID:   entry.ID,
			Replied:   outcome == relay.OutcomeReplied,
			At:        at.UTC(),
		},
		Data: Data{Text: entry.Content},
	}, true
}

package models

// RelayConfig is the immutable configuration handed to the relay at construction.
type RelayConfig struct {
	Token          string          `json:"-" mapstructure:"bot_token"`
	AdminChannelID string          `json:"admin_channel_id" mapstructure:"admin_channel_id"`
	Relay          RelaySection    `json:"relay" mapstructure:"relay"`
	Commands       CommandsSection `json:"commands" mapstructure:"commands"`
	Log            LogSection      `json:"log" mapstructure:"log"`
}

// RelaySection holds the audit relay settings under the "relay" key.
type RelaySection struct {
	DestinationChannelID string      `json:"destination_channel_id" mapstructure:"destination_channel_id"`
	IgnoredRoleNames     []string    `json:"ignored_role_names" mapstructure:"ignored_role_names"`
	MaxAttachments       int         `json:"max_attachments" mapstructure:"max_attachments"`
	HistoryWindow        int         `json:"history_window" mapstructure:"history_window"`
	MessageCache         int         `json:"message_cache" mapstructure:"message_cache"`
	StatsSchedule        string      `json:"stats_schedule" mapstructure:"stats_schedule"`
	HealthAddr           string      `json:"health_addr" mapstructure:"health_addr"`
	AMQP                 AMQPSection `json:"amqp" mapstructure:"amqp"`
}

// AMQPSection configures the optional fan-out of audit entries to RabbitMQ.
type AMQPSection struct {
	URL      string `json:"url" mapstructure:"url"`
	Exchange string `json:"exchange" mapstructure:"exchange"`
}

// CommandsSection configures the slash commands.
type CommandsSection struct {
	Auth AuthSection `json:"auth" mapstructure:"auth"`
}

// AuthSection lists who may run privileged commands.
type AuthSection struct {
	Developers []string `json:"developers" mapstructure:"developers"`
	AdminRoles []string `json:"admin_roles" mapstructure:"admin_roles"`
}

// LogSection configures process logging.
type LogSection struct {
	Level  string `json:"level" mapstructure:"level"`
	Pretty bool   `json:"pretty" mapstructure:"pretty"`
}

// IsIgnoredRole reports whether the role name is in the exclusion set.
func (c RelayConfig) IsIgnoredRole(name string) bool {
	for _, ignored := range c.Relay.IgnoredRoleNames {
		if ignored == name {
			return true
		}
	}
	return false
}

package relay

import (
	"discord-audit-relay/models"
)

// IsEligible reports whether a message should be written to the audit channel.
// Direct messages, the relay's own messages, system notices and authors with
// an ignored role are skipped.
func IsEligible(cfg models.RelayConfig, selfID string, m *models.Message) bool {
	if m == nil || m.GuildID == "" {
		return false
	}
	if m.Author.ID == selfID || m.System {
		return false
	}
	for _, role := range m.Author.RoleNames {
		if cfg.IsIgnoredRole(role) {
			return false
		}
	}
	return true
}

package utils

import (
	"slices"

	"discord-audit-relay/models"

	"github.com/bwmarrin/discordgo"
)

// Auth provides methods for authorization checks.
type Auth struct {
	config models.AuthSection
}

// NewAuth creates a new Auth instance from the commands section of the config.
func NewAuth(cfg models.AuthSection) *Auth {
	return &Auth{config: cfg}
}

// IsDeveloper checks if a user is a developer.
func (a *Auth) IsDeveloper(userID string) bool {
	return slices.Contains(a.config.Developers, userID)
}

// IsAdmin checks if a member has an admin role.
func (a *Auth) IsAdmin(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	for _, roleID := range member.Roles {
		if slices.Contains(a.config.AdminRoles, roleID) {
			return true
		}
	}
	return false
}

// CheckPermission checks if the caller of an interaction has the required level.
func (a *Auth) CheckPermission(i *discordgo.InteractionCreate, requiredLevel string) bool {
	var userID string
	switch {
	case i.Member != nil && i.Member.User != nil:
		userID = i.Member.User.ID
	case i.User != nil:
		userID = i.User.ID
	}

	switch requiredLevel {
	case "developer":
		return a.IsDeveloper(userID)
	case "admin":
		return a.IsDeveloper(userID) || a.IsAdmin(i.Member)
	case "guest":
		return true
	default:
		return false
	}
}

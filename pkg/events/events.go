// Package events defines the typed gateway events the bot consumes from the
// event bus. Interactive-component events are not bus events: they require a
// synchronous reply and arrive over HTTP instead.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic is the bus topic carrying gateway events.
const Topic = "teemate.gateway.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	MemberJoinedEvent   EventType = "guild.member.joined"
	MemberRemovedEvent  EventType = "guild.member.removed"
	MessageDeletedEvent EventType = "guild.message.deleted"
	MessageUpdatedEvent EventType = "guild.message.updated"
	BanAddedEvent       EventType = "guild.ban.added"
	BanRemovedEvent     EventType = "guild.ban.removed"
	ChannelUpdatedEvent EventType = "guild.channel.updated"
	RoleUpdatedEvent    EventType = "guild.role.updated"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	GuildID   string    `json:"guild_id"`
}

// NewBaseEvent creates the shared envelope for a gateway event.
func NewBaseEvent(eventType EventType, guildID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		GuildID:   guildID,
	}
}

// MemberJoined is delivered at-most-once when a user joins a guild. It is the
// trigger for the welcome module and the onboarding engine.
type MemberJoined struct {
	BaseEvent

	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	AvatarHash string `json:"avatar_hash,omitempty"`
}

func (e MemberJoined) GetType() EventType { return MemberJoinedEvent }

type MemberRemoved struct {
	BaseEvent

	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	AvatarHash string `json:"avatar_hash,omitempty"`
}

func (e MemberRemoved) GetType() EventType { return MemberRemovedEvent }

type MessageDeleted struct {
	BaseEvent

	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

func (e MessageDeleted) GetType() EventType { return MessageDeletedEvent }

type MessageUpdated struct {
	BaseEvent

	ChannelID      string `json:"channel_id"`
	AuthorUsername string `json:"author_username"`
	Content        string `json:"content,omitempty"`
}

func (e MessageUpdated) GetType() EventType { return MessageUpdatedEvent }

type BanAdded struct {
	BaseEvent

	Username string `json:"username"`
}

func (e BanAdded) GetType() EventType { return BanAddedEvent }

type BanRemoved struct {
	BaseEvent

	Username string `json:"username"`
}

func (e BanRemoved) GetType() EventType { return BanRemovedEvent }

type ChannelUpdated struct {
	BaseEvent

	ChannelName string `json:"channel_name"`
}

func (e ChannelUpdated) GetType() EventType { return ChannelUpdatedEvent }

type RoleUpdated struct {
	BaseEvent

	RoleName string `json:"role_name"`
}

func (e RoleUpdated) GetType() EventType { return RoleUpdatedEvent }

package discord

import "strconv"

// Component type identifiers on the Discord wire format.
const (
	ComponentActionRow    = 1
	ComponentButton       = 2
	ComponentStringSelect = 3
)

// Button styles.
const ButtonStylePrimary = 1

// ChannelTypePrivateThread is the channel type for private threads.
const ChannelTypePrivateThread = 12

// FlagEphemeral marks an interaction reply as visible only to the invoking user.
const FlagEphemeral = 1 << 6

// Message is an outbound channel message payload. Content, Components and
// Embeds may be combined in one post.
type Message struct {
	Content    string      `json:"content,omitempty"`
	Components []ActionRow `json:"components,omitempty"`
	Embeds     []Embed     `json:"embeds,omitempty"`
}

// ActionRow is one display row of interactive components.
type ActionRow struct {
	Type       int         `json:"type"` // always ComponentActionRow
	Components []Component `json:"components"`
}

// Component is a button or string select inside an action row. The CustomID
// round-trips back in interaction events when the control is activated.
type Component struct {
	Type        int            `json:"type"`
	Style       int            `json:"style,omitempty"`
	Label       string         `json:"label,omitempty"`
	CustomID    string         `json:"custom_id,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	MinValues   *int           `json:"min_values,omitempty"`
	MaxValues   int            `json:"max_values,omitempty"`
	Options     []SelectOption `json:"options,omitempty"`
	Emoji       *Emoji         `json:"emoji,omitempty"`
}

// SelectOption is one choice in a string select.
type SelectOption struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Emoji       *Emoji `json:"emoji,omitempty"`
}

// Emoji references either a custom emoji by ID or a unicode emoji by name.
type Emoji struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Embed is a rich message embed.
type Embed struct {
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Color       int         `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Thumbnail   *EmbedImage  `json:"thumbnail,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField is a name/value pair inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedImage points at an image URL.
type EmbedImage struct {
	URL string `json:"url"`
}

// Channel is the subset of the channel object the bot reads back, primarily
// the ID of a freshly created thread.
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Type     int    `json:"type,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
}

// Guild is the subset of the guild object used to resolve display names.
type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AvatarURL returns the CDN URL for a user avatar thumbnail, or "" when the
// user has no avatar hash.
func AvatarURL(userID, avatarHash string, size int) string {
	if avatarHash == "" {
		return ""
	}

	return "https://cdn.discordapp.com/avatars/" + userID + "/" + avatarHash + ".png?size=" + strconv.Itoa(size)
}

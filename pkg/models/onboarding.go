// Package models defines the core domain models for guild configuration and onboarding workflows.
package models

import "time"

// StepType discriminates the onboarding step union. The interpreter and the
// component renderer switch exhaustively over it; an unknown type is an error,
// never a silent skip.
type StepType string

const (
	StepTypeMessage StepType = "message"
	StepTypeDelay   StepType = "delay"
	StepTypeAction  StepType = "action"
)

// ComponentType discriminates interactive components inside an action step.
type ComponentType string

const (
	ComponentTypeButton   ComponentType = "button"
	ComponentTypeDropdown ComponentType = "dropdown"
)

// Structural limits enforced before a definition is persisted.
const (
	MaxSteps           = 20
	MaxButtonOptions   = 5
	MaxDropdownOptions = 25
	MinDelaySeconds    = 1
	MaxDelaySeconds    = 300
)

// Onboarding is a guild's onboarding workflow definition. There is one active
// definition per guild; it is mutated wholesale by administrator edits and is
// read-only to the runner and the interaction router.
type Onboarding struct {
	GuildID   string    `json:"guild_id"   validate:"required"`
	Enabled   bool      `json:"enabled"`
	ChannelID string    `json:"channel_id"` // Parent channel for private threads
	Steps     []Step    `json:"steps"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Step is one entry in the workflow. The ID is stable, guild-unique and
// immutable: it is embedded in component custom IDs of messages that outlive
// definition edits, so it must never be reused for a different step.
type Step struct {
	ID            string      `json:"id"   validate:"required"`
	Type          StepType    `json:"type" validate:"required"`
	Content       string      `json:"content,omitempty"`        // message steps
	DelaySeconds  int         `json:"delay_seconds,omitempty"`  // delay steps
	ActionMessage string      `json:"action_message,omitempty"` // action steps, optional prompt
	Components    []Component `json:"components,omitempty"`     // action steps
}

// Component is an interactive control group rendered with an action step.
type Component struct {
	Type        ComponentType `json:"type" validate:"required"`
	Placeholder string        `json:"placeholder,omitempty"` // dropdowns only
	MultiSelect bool          `json:"multi_select,omitempty"` // dropdowns only
	Options     []Option      `json:"options"`
}

// Option is one selectable choice. Value is unique within its component and is
// the token embedded in button custom IDs; RoleID is the role toggled when the
// option is selected.
type Option struct {
	Label       string `json:"label" validate:"required"`
	Value       string `json:"value" validate:"required"`
	Description string `json:"description,omitempty"`
	Emoji       *Emoji `json:"emoji,omitempty"`
	RoleID      string `json:"role_id,omitempty"`
}

// Emoji is either a custom emoji (ID set) or a unicode one (Name only).
type Emoji struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// FindStep returns the step with the given ID, or nil when the definition no
// longer contains it.
func (o *Onboarding) FindStep(stepID string) *Step {
	for i := range o.Steps {
		if o.Steps[i].ID == stepID {
			return &o.Steps[i]
		}
	}

	return nil
}

// ClampedDelay returns the delay duration bounded to [MinDelaySeconds, MaxDelaySeconds].
func (s *Step) ClampedDelay() int {
	seconds := s.DelaySeconds
	if seconds < MinDelaySeconds {
		seconds = MinDelaySeconds
	}

	if seconds > MaxDelaySeconds {
		seconds = MaxDelaySeconds
	}

	return seconds
}

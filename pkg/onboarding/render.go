package onboarding

import (
	"github.com/teemate/teemate/pkg/discord"
	"github.com/teemate/teemate/pkg/models"
)

const buttonsPerRow = 5

// RenderComponents translates an action step's components into wire action
// rows. Buttons are chunked five to a row; each dropdown takes a full row of
// its own.
func RenderComponents(guildID string, step *models.Step) []discord.ActionRow {
	var rows []discord.ActionRow

	for _, component := range step.Components {
		switch component.Type {
		case models.ComponentTypeButton:
			rows = append(rows, renderButtons(guildID, step.ID, component)...)
		case models.ComponentTypeDropdown:
			rows = append(rows, renderDropdown(guildID, step.ID, component))
		}
	}

	return rows
}

func renderButtons(guildID, stepID string, component models.Component) []discord.ActionRow {
	var rows []discord.ActionRow

	for start := 0; start < len(component.Options); start += buttonsPerRow {
		end := start + buttonsPerRow
		if end > len(component.Options) {
			end = len(component.Options)
		}

		row := discord.ActionRow{Type: discord.ComponentActionRow}
		for _, option := range component.Options[start:end] {
			row.Components = append(row.Components, discord.Component{
				Type:     discord.ComponentButton,
				Style:    discord.ButtonStylePrimary,
				Label:    option.Label,
				CustomID: EncodeButtonID(guildID, stepID, option.Value),
				Emoji:    wireEmoji(option.Emoji),
			})
		}

		rows = append(rows, row)
	}

	return rows
}

func renderDropdown(guildID, stepID string, component models.Component) discord.ActionRow {
	placeholder := component.Placeholder
	if placeholder == "" {
		placeholder = "Select an option"
	}

	sel := discord.Component{
		Type:        discord.ComponentStringSelect,
		CustomID:    EncodeSelectID(guildID, stepID),
		Placeholder: placeholder,
		MaxValues:   1,
	}

	// Multi-select dropdowns allow deselecting everything, so the minimum
	// drops to zero and the maximum spans all options.
	if component.MultiSelect {
		zero := 0
		sel.MinValues = &zero
		sel.MaxValues = len(component.Options)
	}

	for _, option := range component.Options {
		sel.Options = append(sel.Options, discord.SelectOption{
			Label:       option.Label,
			Value:       option.Value,
			Description: option.Description,
			Emoji:       wireEmoji(option.Emoji),
		})
	}

	return discord.ActionRow{Type: discord.ComponentActionRow, Components: []discord.Component{sel}}
}

func wireEmoji(emoji *models.Emoji) *discord.Emoji {
	if emoji == nil {
		return nil
	}

	return &discord.Emoji{ID: emoji.ID, Name: emoji.Name}
}

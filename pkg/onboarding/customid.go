package onboarding

import (
	"errors"
	"strings"
)

// Custom IDs carry routing state through the chat platform and back:
// "onb:<guildID>:<stepID>:<selector>". Buttons encode their option value as
// the selector; dropdowns encode the literal SelectorSelect and deliver the
// chosen values in the interaction payload instead.
const (
	Prefix         = "onb"
	SelectorSelect = "select"
)

// ErrForeignCustomID marks interactions that belong to another feature and
// should be ignored by the router.
var ErrForeignCustomID = errors.New("custom id does not carry the onboarding prefix")

type CustomID struct {
	GuildID  string
	StepID   string
	Selector string
}

// IsSelect reports whether the interaction came from a dropdown rather than
// a button.
func (c CustomID) IsSelect() bool {
	return c.Selector == SelectorSelect
}

func EncodeButtonID(guildID, stepID, value string) string {
	return strings.Join([]string{Prefix, guildID, stepID, value}, ":")
}

func EncodeSelectID(guildID, stepID string) string {
	return strings.Join([]string{Prefix, guildID, stepID, SelectorSelect}, ":")
}

// ParseCustomID decodes a wire custom ID. The selector is everything after
// the third separator, so button option values may themselves contain colons.
func ParseCustomID(raw string) (CustomID, error) {
	parts := strings.SplitN(raw, ":", 4)
	if len(parts) == 0 || parts[0] != Prefix {
		return CustomID{}, ErrForeignCustomID
	}

	if len(parts) != 4 || parts[1] == "" || parts[2] == "" || parts[3] == "" {
		return CustomID{}, errors.New("malformed onboarding custom id: " + raw)
	}

	return CustomID{GuildID: parts[1], StepID: parts[2], Selector: parts[3]}, nil
}

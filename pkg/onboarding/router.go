package onboarding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/teemate/teemate/pkg/models"
	"github.com/teemate/teemate/pkg/persistence"
)

// InteractionEvent is a component interaction as delivered by the chat
// platform: the custom ID that round-tripped from the rendered component, the
// invoking member and their current role set, and, for dropdowns, the values
// selected in this submission.
type InteractionEvent struct {
	CustomID string
	GuildID  string
	UserID   string
	RoleIDs  []string
	Values   []string
}

// Reply is the synchronous answer to an interaction. Onboarding replies are
// always ephemeral.
type Reply struct {
	Content   string
	Ephemeral bool
}

// Router resolves component interactions against the current onboarding
// definition and reconciles the member's roles accordingly. Buttons grant
// their role once and stay granted; dropdown submissions are declarative,
// the member's roles converge to exactly the selected options.
type Router struct {
	definitions persistence.DefinitionSource
	client      ChatClient
	logger      *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRouter(definitions persistence.DefinitionSource, client ChatClient, logger *slog.Logger) *Router {
	return &Router{
		definitions: definitions,
		client:      client,
		logger:      logger.With("module", "onboarding"),
		locks:       map[string]*sync.Mutex{},
	}
}

// Route handles one interaction and returns the reply to send. Concurrent
// submissions by the same member on the same step are serialized so the role
// reads each reconciliation bases its diff on stay coherent; distinct members
// and distinct steps proceed in parallel.
func (r *Router) Route(ctx context.Context, event InteractionEvent) (*Reply, error) {
	customID, err := ParseCustomID(event.CustomID)
	if err != nil {
		return nil, err
	}

	// A custom ID forged for another guild must not touch this one's roles.
	if event.GuildID != "" && event.GuildID != customID.GuildID {
		return nil, fmt.Errorf("custom id guild %s does not match event guild %s", customID.GuildID, event.GuildID)
	}

	lock := r.lockFor(customID.GuildID + "/" + event.UserID + "/" + customID.StepID)
	lock.Lock()
	defer lock.Unlock()

	definition, err := r.definitions.OnboardingByGuild(ctx, customID.GuildID)
	if err != nil {
		return nil, fmt.Errorf("loading onboarding definition: %w", err)
	}

	step := definition.FindStep(customID.StepID)
	if step == nil {
		return &Reply{
			Content:   "This onboarding step is no longer available. An administrator may have updated the workflow.",
			Ephemeral: true,
		}, nil
	}

	if customID.IsSelect() {
		return r.routeSelect(ctx, customID, step, event)
	}

	return r.routeButton(ctx, customID, step, event)
}

func (r *Router) lockFor(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}

	return lock
}

// routeButton grants the role behind a button option. Buttons are monotonic:
// pressing one never removes a role, and pressing it again is a no-op with a
// friendly acknowledgement.
func (r *Router) routeButton(ctx context.Context, customID CustomID, step *models.Step, event InteractionEvent) (*Reply, error) {
	option := findOption(step, customID.Selector)
	if option == nil {
		return &Reply{
			Content:   "That choice is no longer part of this step.",
			Ephemeral: true,
		}, nil
	}

	if option.RoleID == "" {
		return &Reply{Content: "Got it!", Ephemeral: true}, nil
	}

	if hasRole(event.RoleIDs, option.RoleID) {
		return &Reply{
			Content:   "You already have " + roleMention(option.RoleID) + ".",
			Ephemeral: true,
		}, nil
	}

	if err := r.client.AddMemberRole(ctx, customID.GuildID, event.UserID, option.RoleID); err != nil {
		return nil, fmt.Errorf("granting role %s: %w", option.RoleID, err)
	}

	return &Reply{
		Content:   "You now have " + roleMention(option.RoleID) + "!",
		Ephemeral: true,
	}, nil
}

// routeSelect reconciles the member's roles with a dropdown submission:
// selected options they lack are granted, deselected options they hold are
// revoked. A failing role call skips that option and the rest still converge.
// The reply lists the step's roles the member holds after reconciliation, not
// the delta.
func (r *Router) routeSelect(ctx context.Context, customID CustomID, step *models.Step, event InteractionEvent) (*Reply, error) {
	selected := map[string]bool{}
	for _, value := range event.Values {
		selected[value] = true
	}

	has := map[string]bool{}
	for _, roleID := range event.RoleIDs {
		has[roleID] = true
	}

	var held []string

	for _, option := range dropdownOptions(step) {
		if option.RoleID == "" {
			continue
		}

		switch {
		case selected[option.Value] && !has[option.RoleID]:
			if err := r.client.AddMemberRole(ctx, customID.GuildID, event.UserID, option.RoleID); err != nil {
				r.logger.WarnContext(ctx, "Failed to grant role",
					"guild_id", customID.GuildID, "user_id", event.UserID, "role_id", option.RoleID, "error", err)

				continue
			}

			held = append(held, roleMention(option.RoleID))
		case selected[option.Value] && has[option.RoleID]:
			held = append(held, roleMention(option.RoleID))
		case !selected[option.Value] && has[option.RoleID]:
			if err := r.client.RemoveMemberRole(ctx, customID.GuildID, event.UserID, option.RoleID); err != nil {
				r.logger.WarnContext(ctx, "Failed to revoke role",
					"guild_id", customID.GuildID, "user_id", event.UserID, "role_id", option.RoleID, "error", err)
			}
		}
	}

	return &Reply{Content: heldSummary(held), Ephemeral: true}, nil
}

func heldSummary(held []string) string {
	if len(held) == 0 {
		return "You no longer have any roles from this step."
	}

	return "You now have " + pluralRoles(held) + "."
}

func pluralRoles(mentions []string) string {
	if len(mentions) == 1 {
		return "role " + mentions[0]
	}

	return "roles " + strings.Join(mentions, ", ")
}

// findOption locates a button option by its encoded value across every button
// component of the step.
func findOption(step *models.Step, value string) *models.Option {
	for i := range step.Components {
		component := &step.Components[i]
		if component.Type != models.ComponentTypeButton {
			continue
		}

		for j := range component.Options {
			if component.Options[j].Value == value {
				return &component.Options[j]
			}
		}
	}

	return nil
}

// dropdownOptions flattens the options of every dropdown component of a step.
// A step carries at most one dropdown in practice, but the custom ID does not
// distinguish them, so a submission reconciles against all of them.
func dropdownOptions(step *models.Step) []models.Option {
	var options []models.Option

	for _, component := range step.Components {
		if component.Type == models.ComponentTypeDropdown {
			options = append(options, component.Options...)
		}
	}

	return options
}

func roleMention(roleID string) string {
	return "<@&" + roleID + ">"
}

func hasRole(roleIDs []string, roleID string) bool {
	for _, id := range roleIDs {
		if id == roleID {
			return true
		}
	}

	return false
}

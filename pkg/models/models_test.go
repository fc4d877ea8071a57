package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutionContext_Substitute(t *testing.T) {
	t.Parallel()

	ctx := ExecutionContext{
		GuildID:   "g1",
		UserID:    "42",
		Username:  "dana",
		GuildName: "Teemate HQ",
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "all tokens",
			in:   "Hello {user}, welcome to {server}",
			want: "Hello <@42>, welcome to Teemate HQ",
		},
		{
			name: "username token",
			in:   "Hey {username}!",
			want: "Hey dana!",
		},
		{
			name: "repeated tokens",
			in:   "{user} {user}",
			want: "<@42> <@42>",
		},
		{
			name: "unknown tokens left verbatim",
			in:   "try {channel} or {unknown}",
			want: "try {channel} or {unknown}",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "no tokens",
			in:   "plain text",
			want: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ctx.Substitute(tt.in))
		})
	}
}

func TestOnboarding_FindStep(t *testing.T) {
	t.Parallel()

	def := Onboarding{
		GuildID: "g1",
		Steps: []Step{
			{ID: "a", Type: StepTypeMessage},
			{ID: "b", Type: StepTypeDelay, DelaySeconds: 2},
		},
	}

	step := def.FindStep("b")
	assert.NotNil(t, step)
	assert.Equal(t, StepTypeDelay, step.Type)

	assert.Nil(t, def.FindStep("removed"))
}

func TestGuildConfig_LogEventEnabled(t *testing.T) {
	t.Parallel()

	config := GuildConfig{
		GuildID: "g1",
		Logs: LogConfig{
			Enabled:   true,
			ChannelID: "c1",
			Events:    map[string]bool{"ban": true, "memberLeave": false},
		},
	}

	assert.True(t, config.LogEventEnabled("ban"))
	assert.False(t, config.LogEventEnabled("memberLeave"))
	assert.False(t, config.LogEventEnabled("messageDelete"))

	config.Logs.Enabled = false
	assert.False(t, config.LogEventEnabled("ban"))
}

package discord_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemate/teemate/pkg/discord"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*discord.Client, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		record := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
		}

		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&record.Body)
		}

		requests = append(requests, record)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := discord.NewClient("test-token", logger, discord.WithBaseURL(server.URL))

	return client, &requests
}

func TestClient_CreatePrivateThread(t *testing.T) {
	t.Parallel()

	client, requests := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(discord.Channel{ID: "thread-1", Type: discord.ChannelTypePrivateThread})
	})

	thread, err := client.CreatePrivateThread(context.Background(), "chan-1", "dana")

	require.NoError(t, err)
	assert.Equal(t, "thread-1", thread.ID)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/channels/chan-1/threads", req.Path)
	assert.Equal(t, "Bot test-token", req.Auth)
	assert.InDelta(t, discord.ChannelTypePrivateThread, req.Body["type"], 0)
	assert.Equal(t, false, req.Body["invitable"])
}

func TestClient_AddThreadMemberAndRoles(t *testing.T) {
	t.Parallel()

	client, requests := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := context.Background()

	require.NoError(t, client.AddThreadMember(ctx, "thread-1", "user-1"))
	require.NoError(t, client.AddMemberRole(ctx, "g1", "user-1", "role-1"))
	require.NoError(t, client.RemoveMemberRole(ctx, "g1", "user-1", "role-2"))

	require.Len(t, *requests, 3)
	assert.Equal(t, http.MethodPut, (*requests)[0].Method)
	assert.Equal(t, "/channels/thread-1/thread-members/user-1", (*requests)[0].Path)
	assert.Equal(t, http.MethodPut, (*requests)[1].Method)
	assert.Equal(t, "/guilds/g1/members/user-1/roles/role-1", (*requests)[1].Path)
	assert.Equal(t, http.MethodDelete, (*requests)[2].Method)
	assert.Equal(t, "/guilds/g1/members/user-1/roles/role-2", (*requests)[2].Path)
}

func TestClient_CreateMessage(t *testing.T) {
	t.Parallel()

	client, requests := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"m1"}`))
	})

	err := client.CreateMessage(context.Background(), "thread-1", discord.Message{
		Content: "Hello <@42>",
		Components: []discord.ActionRow{{
			Type: discord.ComponentActionRow,
			Components: []discord.Component{{
				Type:     discord.ComponentButton,
				Style:    discord.ButtonStylePrimary,
				Label:    "Gamer",
				CustomID: "onb:g1:s1:gamer",
			}},
		}},
	})

	require.NoError(t, err)
	require.Len(t, *requests, 1)
	assert.Equal(t, "/channels/thread-1/messages", (*requests)[0].Path)
	assert.Equal(t, "Hello <@42>", (*requests)[0].Body["content"])
}

func TestClient_NonSuccessIsTypedError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Missing Permissions","code":50013}`))
	})

	err := client.AddMemberRole(context.Background(), "g1", "user-1", "role-1")

	require.Error(t, err)

	var apiErr *discord.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Contains(t, apiErr.Body, "Missing Permissions")
	assert.False(t, discord.IsNotFound(err))
	assert.False(t, discord.IsServerError(err))
}

func TestClient_ServerErrorClassified(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := client.CreateMessage(context.Background(), "c1", discord.Message{Content: "hi"})

	require.Error(t, err)
	assert.True(t, discord.IsServerError(err))
}

func TestAvatarURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://cdn.discordapp.com/avatars/42/abc.png?size=128",
		discord.AvatarURL("42", "abc", 128))
	assert.Empty(t, discord.AvatarURL("42", "", 128))
}

// Package discord is a thin wrapper over the Discord REST API covering the
// calls the bot issues: threads, thread membership, messages and member roles.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://discord.com/api/v10"
	userAgent      = "TeemateBot (https://discord.teemate.gg, 1.0.0)"

	defaultTimeoutSeconds = 30

	threadAutoArchiveMinutes = 1440 // 24h
)

// Client issues authenticated requests against the Discord REST surface.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client authenticated with the given bot token.
func NewClient(token string, logger *slog.Logger, opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeoutSeconds * time.Second},
		logger:     logger.With("module", "discord_client"),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// CreatePrivateThread creates a non-invitable private thread under the given
// parent channel.
func (c *Client) CreatePrivateThread(ctx context.Context, channelID, name string) (*Channel, error) {
	body := map[string]any{
		"name":                  name,
		"type":                  ChannelTypePrivateThread,
		"invitable":             false,
		"auto_archive_duration": threadAutoArchiveMinutes,
	}

	var thread Channel

	err := c.do(ctx, http.MethodPost, "/channels/"+channelID+"/threads", body, &thread)
	if err != nil {
		return nil, err
	}

	return &thread, nil
}

// AddThreadMember adds a user to a thread.
func (c *Client) AddThreadMember(ctx context.Context, threadID, userID string) error {
	return c.do(ctx, http.MethodPut, "/channels/"+threadID+"/thread-members/"+userID, nil, nil)
}

// CreateMessage posts a message to a channel or thread.
func (c *Client) CreateMessage(ctx context.Context, channelID string, message Message) error {
	return c.do(ctx, http.MethodPost, "/channels/"+channelID+"/messages", message, nil)
}

// AddMemberRole grants a role to a guild member.
func (c *Client) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	return c.do(ctx, http.MethodPut, "/guilds/"+guildID+"/members/"+userID+"/roles/"+roleID, nil, nil)
}

// RemoveMemberRole revokes a role from a guild member.
func (c *Client) RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	return c.do(ctx, http.MethodDelete, "/guilds/"+guildID+"/members/"+userID+"/roles/"+roleID, nil, nil)
}

// Guild fetches a guild, used to resolve its display name.
func (c *Client) Guild(ctx context.Context, guildID string) (*Guild, error) {
	var guild Guild

	err := c.do(ctx, http.MethodGet, "/guilds/"+guildID, nil, &guild)
	if err != nil {
		return nil, err
	}

	return &guild, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discord request failed: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.ErrorContext(ctx, "failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return &APIError{
			Status: resp.StatusCode,
			Method: method,
			Path:   path,
			Body:   string(payload),
		}
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

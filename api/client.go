// Package api implements the HTTP client side of the conversation CRUD
// contract. The backend owns the framing; this package only consumes it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"conversync/models"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
)

// ConversationAPI defines the backend interactions the sync engine needs.
type ConversationAPI interface {
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	ListMessages(ctx context.Context, conversationID int64) ([]models.Message, error)
	CreateMessage(ctx context.Context, conversationID int64, content string) (models.CreatedMessage, error)
	DeleteMessage(ctx context.Context, conversationID, messageID int64) error
	AddReaction(ctx context.Context, conversationID, messageID int64, emoji string) error
	RemoveReaction(ctx context.Context, conversationID, messageID int64, emoji string) error
}

// Client is an http-backed ConversationAPI.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Config carries Client settings. Zero values fall back to the CONVERSYNC_*
// environment variables and a 10s timeout.
type Config struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient builds a Client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = getEnv("CONVERSYNC_API_URL", "http://localhost:8083")
	}
	token := cfg.Token
	if token == "" {
		token = os.Getenv("CONVERSYNC_API_TOKEN")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, token: token, http: httpClient}
}

// ListConversations returns the conversations visible to the session,
// including participants used to resolve display labels.
func (c *Client) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	ctx, span := otel.Tracer("conversync/api").Start(ctx, "conversations.list")
	defer span.End()

	var resp struct {
		Conversations []models.Conversation `json:"conversations"`
	}
	if err := c.do(ctx, http.MethodGet, "/conversations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

// ListMessages returns the full message list of one conversation.
func (c *Client) ListMessages(ctx context.Context, conversationID int64) ([]models.Message, error) {
	ctx, span := otel.Tracer("conversync/api").Start(ctx, "messages.list")
	defer span.End()

	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	path := fmt.Sprintf("/conversations/%d/messages", conversationID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// CreateMessage stores a new message and returns the server-assigned identity.
func (c *Client) CreateMessage(ctx context.Context, conversationID int64, content string) (models.CreatedMessage, error) {
	ctx, span := otel.Tracer("conversync/api").Start(ctx, "messages.create")
	defer span.End()

	var resp models.CreatedMessage
	path := fmt.Sprintf("/conversations/%d/messages", conversationID)
	err := c.do(ctx, http.MethodPost, path, map[string]string{"content": content}, &resp)
	return resp, err
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(ctx context.Context, conversationID, messageID int64) error {
	ctx, span := otel.Tracer("conversync/api").Start(ctx, "messages.delete")
	defer span.End()

	path := fmt.Sprintf("/conversations/%d/messages/%d", conversationID, messageID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// AddReaction applies the viewer's reaction to a message.
func (c *Client) AddReaction(ctx context.Context, conversationID, messageID int64, emoji string) error {
	ctx, span := otel.Tracer("conversync/api").Start(ctx, "reactions.add")
	defer span.End()

	path := fmt.Sprintf("/conversations/%d/messages/%d/reactions", conversationID, messageID)
	return c.do(ctx, http.MethodPost, path, map[string]string{"emoji": emoji}, nil)
}

// RemoveReaction withdraws the viewer's reaction from a message.
func (c *Client) RemoveReaction(ctx context.Context, conversationID, messageID int64, emoji string) error {
	ctx, span := otel.Tracer("conversync/api").Start(ctx, "reactions.remove")
	defer span.End()

	path := fmt.Sprintf("/conversations/%d/messages/%d/reactions?emoji=%s",
		conversationID, messageID, url.QueryEscape(emoji))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return notFoundError(path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func notFoundError(path string) error {
	if strings.Contains(path, "/messages/") {
		return ErrMessageNotFound
	}
	return ErrConversationNotFound
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiBaseURL = "https://discord.com/api/v10"

// RESTClient is a bot-token authenticated Discord REST v10 client, adapted
// from the teacher's notification-service discord.Client (same
// http.Client+json.Marshal+io.ReadAll shape) generalized from webhook-only
// delivery to bot-authenticated channel sends and identity lookups.
type RESTClient struct {
	botToken   string
	httpClient *http.Client
}

func NewRESTClient(botToken string) *RESTClient {
	return &RESTClient{
		botToken:   botToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CurrentUser mirrors the GET /users/@me response.
type CurrentUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (c *RESTClient) GetCurrentUser() (*CurrentUser, error) {
	var user CurrentUser
	if err := c.do("GET", "/users/@me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Message mirrors the subset of the channel message payload maowbotd uses.
type Message struct {
	ID        string `json:"id,omitempty"`
	Content   string `json:"content,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
}

func (c *RESTClient) SendMessage(channelID, content string) (*Message, error) {
	var msg Message
	body := map[string]string{"content": content}
	if err := c.do("POST", fmt.Sprintf("/channels/%s/messages", channelID), body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *RESTClient) do(method, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, apiBaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "maowbotd (https://github.com/maowbot/maowbot, 1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord %s %s failed with status %d: %s", method, path, resp.StatusCode, string(b))
	}
	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

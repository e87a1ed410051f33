package twitch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/maowbot/maowbot/internal/cache"
)

const helixBaseURL = "https://api.twitch.tv/helix"

// TokenProvider returns the current bearer token for Helix calls. The
// platform Manager's credential.Store (not a client-local TokenManager,
// unlike the teacher's standalone service) owns refresh, so this is a thin
// accessor rather than stateful like the teacher's TokenManager.
type TokenProvider func() (string, error)

// HelixClient is a client for the Twitch Helix API, adapted from
// services/twitchbot-service/pkg/twitch/helix_client.go: same endpoint
// surface and makeRequest shape, generalized to pull its bearer token from
// a TokenProvider instead of an embedded TokenManager.
type HelixClient struct {
	clientID   string
	token      TokenProvider
	httpClient *http.Client
	// idCache caches login->broadcaster-ID lookups (internal/cache); nil
	// disables caching and every GetUser call hits Helix.
	idCache cache.Cache
}

// StreamData mirrors the Helix /streams response shape.
type StreamData struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UserLogin   string    `json:"user_login"`
	UserName    string    `json:"user_name"`
	GameID      string    `json:"game_id"`
	GameName    string    `json:"game_name"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	ViewerCount int       `json:"viewer_count"`
	StartedAt   time.Time `json:"started_at"`
}

// UserData mirrors the Helix /users response shape.
type UserData struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// ChatterData is one entry of the Helix /chat/chatters response.
type ChatterData struct {
	UserID    string `json:"user_id"`
	UserLogin string `json:"user_login"`
	UserName  string `json:"user_name"`
}

func NewHelixClient(clientID string, token TokenProvider) *HelixClient {
	return &HelixClient{
		clientID:   clientID,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HelixClient) GetStream(userLogin string) (*StreamData, error) {
	params := url.Values{"user_login": {userLogin}}
	var response struct {
		Data []StreamData `json:"data"`
	}
	if err := c.makeRequest("GET", "/streams", params, &response); err != nil {
		return nil, err
	}
	if len(response.Data) == 0 {
		return nil, nil
	}
	return &response.Data[0], nil
}

// WithIDCache enables broadcaster-ID caching for GetUser, returning c for
// chaining at construction time.
func (c *HelixClient) WithIDCache(idCache cache.Cache) *HelixClient {
	c.idCache = idCache
	return c
}

func (c *HelixClient) GetUser(login string) (*UserData, error) {
	if c.idCache != nil {
		if id, err := cache.GetBroadcasterID(context.Background(), c.idCache, login); err == nil {
			return &UserData{ID: id, Login: login}, nil
		}
	}

	params := url.Values{"login": {login}}
	var response struct {
		Data []UserData `json:"data"`
	}
	if err := c.makeRequest("GET", "/users", params, &response); err != nil {
		return nil, err
	}
	if len(response.Data) == 0 {
		return nil, fmt.Errorf("user not found: %s", login)
	}
	user := &response.Data[0]
	if c.idCache != nil {
		_ = cache.SetBroadcasterID(context.Background(), c.idCache, login, user.ID)
	}
	return user, nil
}

func (c *HelixClient) GetChatters(broadcasterID, moderatorID string) ([]ChatterData, error) {
	if broadcasterID == "" || moderatorID == "" {
		return nil, fmt.Errorf("broadcaster_id and moderator_id are required")
	}
	all := []ChatterData{}
	cursor := ""
	for {
		params := url.Values{"broadcaster_id": {broadcasterID}, "moderator_id": {moderatorID}, "first": {"1000"}}
		if cursor != "" {
			params.Set("after", cursor)
		}
		var response struct {
			Data       []ChatterData `json:"data"`
			Pagination struct {
				Cursor string `json:"cursor"`
			} `json:"pagination"`
		}
		if err := c.makeRequest("GET", "/chat/chatters", params, &response); err != nil {
			return nil, err
		}
		all = append(all, response.Data...)
		cursor = response.Pagination.Cursor
		if cursor == "" {
			break
		}
	}
	return all, nil
}

// SendChatMessage posts via the Helix /chat/messages endpoint, used as a
// fallback when IRC is unavailable (requires user:write:chat/user:bot).
func (c *HelixClient) SendChatMessage(broadcasterID, senderID, message, replyParentID string) error {
	body := map[string]interface{}{
		"broadcaster_id": broadcasterID,
		"sender_id":      senderID,
		"message":        message,
	}
	if replyParentID != "" {
		body["reply_parent_message_id"] = replyParentID
	}
	return c.makePostRequest("/chat/messages", body, nil)
}

func (c *HelixClient) makeRequest(method, endpoint string, params url.Values, result interface{}) error {
	token, err := c.token()
	if err != nil {
		return fmt.Errorf("get access token: %w", err)
	}

	reqURL := helixBaseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequest(method, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("helix %s failed with status %d: %s", endpoint, resp.StatusCode, string(body))
	}
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HelixClient) makePostRequest(endpoint string, body interface{}, result interface{}) error {
	token, err := c.token()
	if err != nil {
		return fmt.Errorf("get access token: %w", err)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	req, err := http.NewRequest("POST", helixBaseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("helix %s failed with status %d: %s", endpoint, resp.StatusCode, string(respBody))
	}
	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

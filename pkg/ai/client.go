package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the external car-recommendation AI endpoint.
type Client struct {
	Endpoint string
	ApiKey   string
	Http     *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		Endpoint: endpoint,
		ApiKey:   apiKey,
		Http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionId string `json:"session_id"`
	Context   string `json:"context"`
	MaxTokens int    `json:"max_tokens"`
}

// Ask forwards a user message and returns the normalized reply body as a
// string. Non-JSON replies pass through untouched.
func (c *Client) Ask(ctx context.Context, message, sessionId string) (string, error) {
	if c.Endpoint == "" {
		return "", fmt.Errorf("AI API configuration is missing")
	}

	payload := chatRequest{
		Message:   message,
		SessionId: sessionId,
		Context:   "car recommendation system",
		MaxTokens: 500,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "CarFinder-ChatBot/1.0")
	if c.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.ApiKey)
	}

	resp, err := c.Http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("AI API call failed with status code: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return NormalizeResponse(raw), nil
}

// NormalizeResponse applies the legacy answer transform to a JSON reply:
// any string-valued "answer" field is truncated at its first colon. Replies
// that are not JSON objects come back verbatim.
//
// TODO: confirm with the AI vendor whether the "<label>: <detail>" answer
// format is still emitted; the truncation only exists for that format.
func NormalizeResponse(raw []byte) string {
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return string(raw)
	}

	for key, value := range obj {
		if !strings.EqualFold(key, "answer") {
			continue
		}
		answer, ok := value.(string)
		if !ok {
			continue
		}
		if idx := strings.Index(answer, ":"); idx != -1 {
			obj[key] = answer[:idx]
		}
	}

	normalized, err := json.Marshal(obj)
	if err != nil {
		return string(raw)
	}
	return string(normalized)
}

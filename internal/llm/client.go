package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cognicore/podtopic/pkg/podtopic/stoplist"
)

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SuggestLabel asks for a short category name for a topic given its
// heaviest words.
func (c *Client) SuggestLabel(ctx context.Context, words []string) (string, error) {
	if len(words) == 0 {
		return "", fmt.Errorf("llm: no topic words")
	}
	system := "You name podcast categories. Reply with a label of at most three words and nothing else."
	user := fmt.Sprintf("Top words of one topic, heaviest first: %s\nLabel:", strings.Join(words, ", "))
	out, err := c.Chat(ctx, system, user)
	if err != nil {
		return "", err
	}
	label := strings.Trim(strings.TrimSpace(out), "\"'.")
	if label == "" {
		return "", fmt.Errorf("llm: empty label")
	}
	return label, nil
}

// Approve reviews one stopword suggestion. The model must answer with
// {"approve": true|false}.
func (c *Client) Approve(ctx context.Context, cand stoplist.Candidate) (bool, error) {
	system := "You curate stopword lists for podcast topic modeling. " +
		`Answer only with JSON {"approve": true} or {"approve": false}.`
	user := fmt.Sprintf("Should %q be excluded as a stopword? It appears in %d documents (%.1f%%), idf %.2f.",
		cand.Token, cand.Reason.DF, cand.Reason.DFPercent, cand.Reason.IDF)
	out, err := c.Chat(ctx, system, user)
	if err != nil {
		return false, err
	}
	return parseApproval(out)
}

func parseApproval(out string) (bool, error) {
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, "```json")
	out = strings.Trim(out, "`\n ")
	var verdict struct {
		Approve *bool `json:"approve"`
	}
	if err := json.Unmarshal([]byte(out), &verdict); err != nil {
		return false, fmt.Errorf("llm: parse approval %q: %w", out, err)
	}
	if verdict.Approve == nil {
		return false, fmt.Errorf("llm: approval missing in %q", out)
	}
	return *verdict.Approve, nil
}

func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	if c.BaseURL == "" || c.Model == "" {
		return "", fmt.Errorf("llm: base URL and model required")
	}
	messages := []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}}
	payload, err := c.send(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return payload.Choices[0].Message.Content, nil
}

func (c *Client) send(ctx context.Context, messages []chatMessage) (*chatResponse, error) {
	reqBody, err := json.Marshal(chatRequest{Model: c.Model, Messages: messages})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("llm: decode response (status %d): %w", resp.StatusCode, err)
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("llm error: %s", payload.Error.Message)
	}
	return &payload, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

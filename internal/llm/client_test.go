package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/cognicore/podtopic/pkg/podtopic/stoplist"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func reply(body string) *http.Response {
	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func answering(t *testing.T, content string, check func(user string)) *Client {
	t.Helper()
	return &Client{
		BaseURL: "https://api.test/v1/chat/completions",
		Model:   "gpt-test",
		APIKey:  "secret",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				if got := req.Header.Get("Authorization"); got != "Bearer secret" {
					t.Errorf("unexpected auth header %q", got)
				}
				var in chatRequest
				if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
					t.Fatalf("decode request: %v", err)
				}
				if check != nil {
					check(in.Messages[len(in.Messages)-1].Content)
				}
				out, _ := json.Marshal(map[string]any{
					"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
				})
				return reply(string(out))
			}),
		},
	}
}

func TestSuggestLabel(t *testing.T) {
	client := answering(t, " \"Personal Finance\".\n", func(user string) {
		if !strings.Contains(user, "stocks, money, market") {
			t.Errorf("topic words missing from prompt: %q", user)
		}
	})

	got, err := client.SuggestLabel(context.Background(), []string{"stocks", "money", "market"})
	if err != nil {
		t.Fatalf("SuggestLabel: %v", err)
	}
	if got != "Personal Finance" {
		t.Fatalf("unexpected label %q", got)
	}

	if _, err := client.SuggestLabel(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty word list")
	}
}

func TestApprove(t *testing.T) {
	cand := stoplist.Candidate{Token: "episode", Reason: stoplist.Reason{DF: 90, DFPercent: 90}}

	yes := answering(t, "```json\n{\"approve\": true}\n```", func(user string) {
		if !strings.Contains(user, `"episode"`) {
			t.Errorf("token missing from prompt: %q", user)
		}
	})
	ok, err := yes.Approve(context.Background(), cand)
	if err != nil || !ok {
		t.Fatalf("expected approval, got %v, %v", ok, err)
	}

	no := answering(t, `{"approve": false}`, nil)
	ok, err = no.Approve(context.Background(), cand)
	if err != nil || ok {
		t.Fatalf("expected rejection, got %v, %v", ok, err)
	}

	bad := answering(t, "sure, why not", nil)
	if _, err := bad.Approve(context.Background(), cand); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestChatError(t *testing.T) {
	client := &Client{
		BaseURL: "https://api.test/v1/chat/completions",
		Model:   "gpt-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return reply(`{"error":{"message":"bad"}}`)
			}),
		},
	}
	if _, err := client.Chat(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := (&Client{}).Chat(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error without base URL")
	}
}

func TestChat(t *testing.T) {
	client := answering(t, "hi", nil)
	out, err := client.Chat(context.Background(), "system", "user prompt")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out != "hi" {
		t.Fatalf("unexpected chat output %s", out)
	}
}

package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/xpanvictor/linguavox/pkg/Logger"
)

type capturedRequest struct {
	Model     string `json:"model"`
	MaxTokens int64  `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func TestOpenAICompleteSendsSingleUserMessage(t *testing.T) {
	var (
		mu   sync.Mutex
		got  capturedRequest
		auth string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(" Γειά σου κόσμε ")))
	}))
	defer srv.Close()

	c := NewOpenAI(OpenAIConfig{
		BaseURL: srv.URL + "/",
		Keys:    StaticKey("test-key"),
	}, Logger.NewNop())

	out, err := c.Complete(context.Background(), CompletionRequest{Prompt: "hello", MaxTokens: 100})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if out != " Γειά σου κόσμε " {
		t.Errorf("Expected untrimmed content, got %q", out)
	}
	if auth != "Bearer test-key" {
		t.Errorf("Expected bearer auth, got %q", auth)
	}
	if got.Model != "gpt-3.5-turbo" {
		t.Errorf("Expected default model, got %s", got.Model)
	}
	if got.MaxTokens != 100 {
		t.Errorf("Expected max_tokens 100, got %d", got.MaxTokens)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "hello" {
		t.Errorf("Expected one user message, got %+v", got.Messages)
	}
}

func TestOpenAICompleteReadsKeyPerRequest(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("ok")))
	}))
	defer srv.Close()

	key := "k1"
	c := NewOpenAI(OpenAIConfig{
		BaseURL: srv.URL + "/",
		Keys:    func() string { return key },
	}, Logger.NewNop())

	if _, err := c.Complete(context.Background(), CompletionRequest{Prompt: "a"}); err != nil {
		t.Fatalf("first Complete() error: %v", err)
	}
	key = "k2"
	if _, err := c.Complete(context.Background(), CompletionRequest{Prompt: "b"}); err != nil {
		t.Fatalf("second Complete() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != "Bearer k1" || seen[1] != "Bearer k2" {
		t.Errorf("Expected rotating keys, got %v", seen)
	}
}

func TestOpenAICompleteUpstreamFailureNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAI(OpenAIConfig{BaseURL: srv.URL + "/", Keys: StaticKey("k")}, Logger.NewNop())

	_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if !errors.Is(err, ErrCompletionFailed) {
		t.Fatalf("Expected ErrCompletionFailed, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("Expected exactly one upstream call, got %d", n)
	}
}

func TestOpenAICompleteMalformedChoices(t *testing.T) {
	cases := map[string]string{
		"no choices":      `{"id":"x","object":"chat.completion","choices":[]}`,
		"no message":      `{"id":"x","object":"chat.completion","choices":[{"index":0}]}`,
		"missing content": `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant"}}]}`,
		"null content":    `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":null}}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			c := NewOpenAI(OpenAIConfig{BaseURL: srv.URL + "/", Keys: StaticKey("k")}, Logger.NewNop())

			out, err := c.Complete(context.Background(), CompletionRequest{Prompt: "x"})
			if !errors.Is(err, ErrMalformedCompletion) {
				t.Errorf("Expected ErrMalformedCompletion, got %q, %v", out, err)
			}
		})
	}
}

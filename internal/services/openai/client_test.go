package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Hali-creater/AuraPin/internal/services/openai"
)

func newTestClient(url string, opts ...openai.Option) *openai.Client {
	base := []openai.Option{openai.WithRetryBackoff(time.Millisecond, 5*time.Millisecond)}
	return openai.NewClient(openai.Config{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "gpt-4o-mini",
	}, append(base, opts...)...)
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		io.WriteString(w, `{"choices": [{"message": {"content": "  A cozy corner upgrade.  "}}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	content, err := client.Complete(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if content != "A cozy corner upgrade." {
		t.Fatalf("expected trimmed completion, got %q", content)
	}
	if captured["model"] != "gpt-4o-mini" {
		t.Fatalf("expected model in payload, got %v", captured["model"])
	}
	messages, ok := captured["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %v", captured["messages"])
	}
}

func TestCompleteRetriesRateLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `{"choices": [{"message": {"content": "ok"}}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	content, err := client.Complete(context.Background(), "", "user prompt")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if content != "ok" || calls != 2 {
		t.Fatalf("expected success on second call, got %q after %d calls", content, calls)
	}
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error": {"message": "bad key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Complete(context.Background(), "", "user prompt"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("client errors must not be retried, got %d calls", calls)
	}
}

func TestCompleteRequiresPromptAndKey(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0")
	if _, err := client.Complete(context.Background(), "sys", ""); err == nil {
		t.Fatal("expected error for empty prompt")
	}

	keyless := openai.NewClient(openai.Config{BaseURL: "http://127.0.0.1:0"})
	if _, err := keyless.Complete(context.Background(), "sys", "user"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"genrecheck/internal/services"
)

func completionPayload(content string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "mistral",
		"choices": []any{
			map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	}
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": message, "type": "server_error"},
	})
}

func TestClassifyGenresSendsPromptAndReturnsAnswer(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionPayload("  Drama, Thriller \n"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "mistral"})
	answer, err := client.ClassifyGenres(context.Background(), "A detective hunts replicants.")
	if err != nil {
		t.Fatalf("ClassifyGenres returned error: %v", err)
	}
	if answer != "Drama, Thriller" {
		t.Fatalf("expected trimmed answer, got %q", answer)
	}

	if gotBody["model"] != "mistral" {
		t.Fatalf("expected model mistral, got %v", gotBody["model"])
	}
	messages, ok := gotBody["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("expected single message, got %v", gotBody["messages"])
	}
	message := messages[0].(map[string]any)
	if message["role"] != "user" {
		t.Fatalf("expected user role, got %v", message["role"])
	}
	content, _ := message["content"].(string)
	if !strings.Contains(content, "into genres: A detective hunts replicants.. The genres should be one word") {
		t.Fatalf("prompt missing summary: %q", content)
	}
}

func TestGenrePrompt(t *testing.T) {
	got := GenrePrompt("  Two friends rob a bank.  ")
	want := "Classify the following movie summary into genres: Two friends rob a bank.. " +
		"The genres should be one word, for example don't say Political Thriller, only Thriller. " +
		"Only list the genres, separated by commas. Do not include any additional information or brackets."
	if got != want {
		t.Fatalf("unexpected prompt:\n got %q\nwant %q", got, want)
	}
}

func TestClassifyGenresRejectsEmptySummary(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Model: "mistral"})
	_, err := client.ClassifyGenres(context.Background(), "   ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCompleteRequiresModel(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := client.Complete(context.Background(), "hello")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestClientRetriesOnHTTP429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			writeAPIError(w, http.StatusTooManyRequests, "rate limited")
			return
		}
		_ = json.NewEncoder(w).Encode(completionPayload("Comedy"))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{BaseURL: server.URL, Model: "mistral"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(time.Second, 10*time.Second),
		WithRetryMaxAttempts(5),
	)
	answer, err := client.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if answer != "Comedy" {
		t.Fatalf("unexpected answer %q", answer)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestClientRetriesOnEmptyContentThenSucceeds(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		content := ""
		if calls >= 3 {
			content = "Horror, Mystery"
		}
		_ = json.NewEncoder(w).Encode(completionPayload(content))
	}))
	defer server.Close()

	client := NewClient(
		Config{BaseURL: server.URL, Model: "mistral"},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
		WithRetryMaxAttempts(5),
	)
	answer, err := client.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if answer != "Horror, Mystery" {
		t.Fatalf("unexpected answer %q", answer)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestClientGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeAPIError(w, http.StatusServiceUnavailable, "loading model")
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{BaseURL: server.URL, Model: "mistral", MaxAttempts: 3},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(time.Second, 10*time.Second),
	)
	_, err := client.Complete(context.Background(), "prompt")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(slept) != len(want) || slept[0] != want[0] || slept[1] != want[1] {
		t.Fatalf("expected backoff %v, got %v", want, slept)
	}
}

func TestClientDoesNotRetryOnBadRequest(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeAPIError(w, http.StatusBadRequest, "bad request")
	}))
	defer server.Close()

	client := NewClient(
		Config{BaseURL: server.URL, Model: "mistral", MaxAttempts: 4},
		WithSleeper(func(time.Duration) {}),
	)
	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected single call, got %d", calls)
	}
}

func TestClientUnauthorizedIsConfigurationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusUnauthorized, "invalid api key")
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "mistral", APIKey: "bad"})
	_, err := client.Complete(context.Background(), "prompt")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestClientContextCancelStopsRetries(t *testing.T) {
	var calls int
	ctx, cancel := context.WithCancel(context.Background())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeAPIError(w, http.StatusInternalServerError, "boom")
	}))
	defer server.Close()

	client := NewClient(
		Config{BaseURL: server.URL, Model: "mistral", MaxAttempts: 5},
		WithRetryBackoff(time.Second, time.Second),
		WithSleeper(func(time.Duration) { cancel() }),
	)
	_, err := client.Complete(ctx, "prompt")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected retries to stop after cancel, got %d calls", calls)
	}
}

func TestClientHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		ids     []string
		wantErr bool
	}{
		{name: "exact", model: "mistral:7b", ids: []string{"llama3:latest", "mistral:7b"}},
		{name: "untagged matches tag", model: "mistral", ids: []string{"mistral:latest"}},
		{name: "missing model", model: "mistral", ids: []string{"llama3:latest"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/models" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				data := make([]any, 0, len(tc.ids))
				for _, id := range tc.ids {
					data = append(data, map[string]any{"id": id, "object": "model", "owned_by": "library"})
				}
				_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
			}))
			defer server.Close()

			client := NewClient(Config{BaseURL: server.URL, Model: tc.model})
			err := client.HealthCheck(context.Background())
			if tc.wantErr {
				if !errors.Is(err, services.ErrConfiguration) {
					t.Fatalf("expected configuration error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("HealthCheck returned error: %v", err)
			}
		})
	}
}

func TestClientHealthCheckUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(Config{BaseURL: baseURL, Model: "mistral"})
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check to fail")
	}
}

func TestBackoffDelayCaps(t *testing.T) {
	client := NewClient(Config{Model: "m"}, WithRetryBackoff(time.Second, 5*time.Second))
	cases := map[int]time.Duration{1: time.Second, 2: 2 * time.Second, 3: 4 * time.Second, 4: 5 * time.Second, 10: 5 * time.Second}
	for attempt, want := range cases {
		if got := client.backoffDelay(attempt); got != want {
			t.Fatalf("attempt %d: expected %v, got %v", attempt, want, got)
		}
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{Model: " mistral ", BaseURL: ""})
	if client.cfg.BaseURL != defaultBaseURL {
		t.Fatalf("expected default base url, got %q", client.cfg.BaseURL)
	}
	if client.Model() != "mistral" {
		t.Fatalf("expected trimmed model, got %q", client.Model())
	}
	if client.retryAttempts() != defaultRetryAttempts {
		t.Fatalf("expected default attempts, got %d", client.retryAttempts())
	}
}

type headerTransport struct {
	base http.RoundTripper
}

func (h headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Test-Client", "custom")
	return h.base.RoundTrip(req)
}

func TestWithHTTPClientIsUsed(t *testing.T) {
	var gotHeader, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Test-Client")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(completionPayload("Western"))
	}))
	defer server.Close()

	client := NewClient(
		Config{BaseURL: server.URL, Model: "mistral", APIKey: "secret"},
		WithHTTPClient(&http.Client{Transport: headerTransport{base: http.DefaultTransport}}),
	)
	if _, err := client.Complete(context.Background(), "prompt"); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if gotHeader != "custom" {
		t.Fatalf("expected custom http client to be used, got header %q", gotHeader)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
}

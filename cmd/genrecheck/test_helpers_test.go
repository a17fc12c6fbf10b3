package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"genrecheck/internal/config"
	"genrecheck/internal/testsupport"
)

// fakeLLM serves the two OpenAI-compatible endpoints the client uses.
type fakeLLM struct {
	server *httptest.Server
	answer atomic.Value
	calls  atomic.Int32
	models []string
}

func newFakeLLM(t *testing.T, answer string) *fakeLLM {
	t.Helper()
	f := &fakeLLM{models: []string{"mistral:latest"}}
	f.answer.Store(answer)
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/chat/completions":
			f.calls.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     "chatcmpl-test",
				"object": "chat.completion",
				"choices": []any{map[string]any{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": f.answer.Load().(string)},
				}},
			})
		case "/models":
			data := make([]any, 0, len(f.models))
			for _, id := range f.models {
				data = append(data, map[string]any{"id": id, "object": "model"})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

type cliTestEnv struct {
	cfg        *config.Config
	llm        *fakeLLM
	configPath string
	baseDir    string
}

var defaultCorpus = []testsupport.CorpusEntry{
	{ID: 10, Title: "Heat", Genres: []string{"Crime Fiction", "Thriller", "Drama"}, Summary: "A detective pursues a crew of thieves."},
	{ID: 11, Title: "Unlabelled", NoGenres: true, Summary: "No genre column here."},
}

func setupCLITestEnv(t *testing.T, answer string, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("GENRECHECK_LLM_API_KEY", "")
	t.Chdir(base)

	llm := newFakeLLM(t, answer)
	opts = append([]testsupport.ConfigOption{testsupport.WithLLMEndpoint(llm.server.URL)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)

	configPath := filepath.Join(homeDir, ".config", "genrecheck", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, llm: llm, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}

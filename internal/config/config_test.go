package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"genrecheck/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())
	t.Setenv("GENRECHECK_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "genrecheck")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	wantDataset := filepath.Join(tempHome, ".cache", "genrecheck", "MovieSummaries")
	if cfg.Dataset.Dir != wantDataset {
		t.Fatalf("unexpected dataset dir: got %q want %q", cfg.Dataset.Dir, wantDataset)
	}
	if cfg.History.Path != filepath.Join(wantData, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.History.Path)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.LLM.Model != "mistral" {
		t.Fatalf("unexpected default model: %q", cfg.LLM.Model)
	}
	if cfg.LLM.BaseURL != "http://localhost:11434/v1" {
		t.Fatalf("unexpected default base url: %q", cfg.LLM.BaseURL)
	}
	if cfg.Dataset.URL != config.Default().Dataset.URL {
		t.Fatalf("unexpected dataset url: %q", cfg.Dataset.URL)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.ToSlash(filepath.Join(dir, "data")) + `"

[llm]
base_url = "http://llm.local:8080/v1/"
model = " llama3 "
timeout_seconds = 30

[history]
enabled = false

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected explicit path to be used, got %q (exists=%v)", resolved, exists)
	}
	if cfg.LLM.BaseURL != "http://llm.local:8080/v1" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Model != "llama3" {
		t.Fatalf("expected trimmed model, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.TimeoutSeconds != 30 {
		t.Fatalf("unexpected timeout: %d", cfg.LLM.TimeoutSeconds)
	}
	if cfg.LLM.MaxAttempts != 3 {
		t.Fatalf("expected default max attempts, got %d", cfg.LLM.MaxAttempts)
	}
	if cfg.History.Enabled {
		t.Fatal("expected history disabled")
	}
	if cfg.History.Path != filepath.Join(dir, "data", "history.db") {
		t.Fatalf("expected history path under data dir, got %q", cfg.History.Path)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[llm]\nmodle = \"typo\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestAPIKeyEnvFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("GENRECHECK_LLM_API_KEY", "primary-key")
	t.Setenv("OPENAI_API_KEY", "secondary-key")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "primary-key" {
		t.Fatalf("expected GENRECHECK_LLM_API_KEY to win, got %q", cfg.LLM.APIKey)
	}
	if got := cfg.GetLLM().APIKey; got != "primary-key" {
		t.Fatalf("GetLLM api key = %q", got)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"missing model", func(c *config.Config) { c.LLM.Model = "" }, "llm.model"},
		{"bad base url", func(c *config.Config) { c.LLM.BaseURL = "localhost:11434" }, "llm.base_url"},
		{"zero timeout", func(c *config.Config) { c.LLM.TimeoutSeconds = 0 }, "llm.timeout_seconds"},
		{"missing dataset url", func(c *config.Config) { c.Dataset.URL = "" }, "dataset.url"},
		{"missing dataset dir", func(c *config.Config) { c.Dataset.Dir = "" }, "dataset.dir"},
		{"history path", func(c *config.Config) { c.History.Path = "" }, "history.path"},
		{"log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.History.Path = "/tmp/history.db"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDatasetURLOptionalWithoutAutoDownload(t *testing.T) {
	cfg := config.Default()
	cfg.History.Path = "/tmp/history.db"
	cfg.Dataset.URL = ""
	cfg.Dataset.AutoDownload = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected config to validate, got %v", err)
	}
}

func TestSampleConfigRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if decoded.LLM.Model != config.Default().LLM.Model {
		t.Fatalf("sample model %q differs from default", decoded.LLM.Model)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("Load(sample) returned error: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.History.Path = filepath.Join(base, "db", "history.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, filepath.Dir(cfg.History.Path)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

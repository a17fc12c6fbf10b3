package testsupport

import (
	"path/filepath"
	"testing"

	"genrecheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Dataset auto-download is disabled and the LLM points at an unroutable
// address until WithLLMEndpoint is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Dataset.Dir = filepath.Join(base, "corpus", "MovieSummaries")
	cfgVal.Dataset.AutoDownload = false
	cfgVal.History.Path = filepath.Join(base, "data", "history.db")
	cfgVal.LLM.BaseURL = "http://127.0.0.1:1/v1"
	cfgVal.LLM.MaxAttempts = 1
	cfgVal.LLM.TimeoutSeconds = 5

	builder := &configBuilder{
		t:   t,
		cfg: &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLLMEndpoint points the LLM client at baseURL, typically an httptest server.
func WithLLMEndpoint(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = baseURL
	}
}

// WithDatasetURL enables auto-download from url.
func WithDatasetURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dataset.URL = url
		b.cfg.Dataset.AutoDownload = true
	}
}

// WithCorpus writes entries into the dataset directory.
func WithCorpus(entries ...CorpusEntry) ConfigOption {
	return func(b *configBuilder) {
		WriteCorpus(b.t, b.cfg.Dataset.Dir, entries)
	}
}

// WithoutHistory disables the history store.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

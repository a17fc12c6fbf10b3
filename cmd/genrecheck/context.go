package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"genrecheck/internal/config"
	"genrecheck/internal/history"
	"genrecheck/internal/logging"
	"genrecheck/internal/moviedata"
	"genrecheck/internal/services"
	"genrecheck/internal/services/llm"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	verboseFlag  *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		verboseFlag:  verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

func (c *commandContext) logLevel(cfg *config.Config) string {
	if c.logLevelFlag != nil {
		if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
			return level
		}
	}
	if c.verbose() {
		return "debug"
	}
	return cfg.Logging.Level
}

// ensureLogger writes to genrecheck.log in the log directory. Stderr only
// receives log lines with --verbose so rendered output stays readable.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		if c.verbose() {
			c.logger, c.loggerErr = logging.NewFromConfig(cfg, c.logLevel(cfg))
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:       c.logLevel(cfg),
			Format:      cfg.Logging.Format,
			OutputPaths: []string{logging.LogFilePath(cfg)},
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	logger, err := c.ensureLogger()
	if err != nil || logger == nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) fetchOptions(cfg *config.Config, force bool) moviedata.FetchOptions {
	return moviedata.FetchOptions{
		URL:     cfg.Dataset.URL,
		Dir:     cfg.Dataset.Dir,
		Timeout: cfg.DownloadTimeout(),
		Force:   force,
		Logger:  c.loggerValue(),
	}
}

// loadCatalog reads the corpus, downloading it first when it is missing and
// dataset.auto_download is set.
func (c *commandContext) loadCatalog(ctx context.Context, cmd *cobra.Command) (*moviedata.Catalog, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !moviedata.Present(cfg.Dataset.Dir) {
		if !cfg.Dataset.AutoDownload {
			return nil, services.Wrap(services.ErrNotFound, "dataset", "load",
				fmt.Sprintf("movie corpus not found in %s", cfg.Dataset.Dir), nil)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Downloading movie corpus to %s...\n", cfg.Dataset.Dir)
		if _, err := moviedata.Fetch(ctx, c.fetchOptions(cfg, false)); err != nil {
			return nil, err
		}
	}
	catalog, err := moviedata.Load(cfg.Dataset.Dir)
	if err != nil {
		return nil, err
	}
	if skipped := catalog.Skipped(); skipped > 0 {
		c.loggerValue().Debug("corpus lines skipped", logging.Int("skipped", skipped))
	}
	return catalog, nil
}

func (c *commandContext) llmClient() (*llm.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	settings := cfg.GetLLM()
	return llm.NewClient(llm.Config{
		BaseURL:        settings.BaseURL,
		Model:          settings.Model,
		APIKey:         settings.APIKey,
		TimeoutSeconds: settings.TimeoutSeconds,
		MaxAttempts:    settings.MaxAttempts,
	}), nil
}

func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

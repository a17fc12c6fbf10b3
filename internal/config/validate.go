package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDataset() error {
	if strings.TrimSpace(c.Dataset.Dir) == "" {
		return errors.New("dataset.dir must be set")
	}
	if c.Dataset.AutoDownload {
		if c.Dataset.URL == "" {
			return errors.New("dataset.url must be set when dataset.auto_download is true")
		}
		if err := validateHTTPURL(c.Dataset.URL); err != nil {
			return fmt.Errorf("dataset.url: %w", err)
		}
	}
	if c.Dataset.DownloadTimeout <= 0 {
		return errors.New("dataset.download_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.Model == "" {
		return errors.New("llm.model must be set")
	}
	if err := validateHTTPURL(c.LLM.BaseURL); err != nil {
		return fmt.Errorf("llm.base_url: %w", err)
	}
	if err := ensurePositiveMap(map[string]int{
		"llm.timeout_seconds": c.LLM.TimeoutSeconds,
		"llm.max_attempts":    c.LLM.MaxAttempts,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%q is missing a host", raw)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

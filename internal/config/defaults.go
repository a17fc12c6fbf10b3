package config

const (
	defaultConfigPath        = "~/.config/genrecheck/config.toml"
	defaultDataDir           = "~/.local/share/genrecheck"
	defaultLogDir            = "~/.local/share/genrecheck/logs"
	defaultDatasetURL        = "http://www.cs.cmu.edu/~ark/personas/data/MovieSummaries.tar.gz"
	defaultDatasetDir        = "~/.cache/genrecheck/MovieSummaries"
	defaultDownloadTimeout   = 600
	defaultLLMBaseURL        = "http://localhost:11434/v1"
	defaultLLMModel          = "mistral"
	defaultLLMTimeoutSeconds = 120
	defaultLLMMaxAttempts    = 3
	defaultHistoryFile       = "history.db"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Dataset: Dataset{
			URL:             defaultDatasetURL,
			Dir:             defaultDatasetDir,
			AutoDownload:    true,
			DownloadTimeout: defaultDownloadTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			MaxAttempts:    defaultLLMMaxAttempts,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

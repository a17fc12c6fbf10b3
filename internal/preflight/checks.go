package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"genrecheck/internal/config"
	"genrecheck/internal/history"
	"genrecheck/internal/moviedata"
	"genrecheck/internal/services/llm"
)

const llmCheckTimeout = 30 * time.Second

// CheckLLM verifies that the endpoint is reachable and serves the model.
// It uses a single attempt.
func CheckLLM(ctx context.Context, name string, cfg config.LLMConfig) Result {
	if cfg.Model == "" {
		return Result{Name: name, Detail: "model missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, llmCheckTimeout)
	defer cancel()

	client := llm.NewClient(llm.Config{
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		APIKey:         cfg.APIKey,
		TimeoutSeconds: cfg.TimeoutSeconds,
	}, llm.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s at %s", cfg.Model, cfg.BaseURL)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCorpus reports whether the movie corpus is cached and how many movies
// can be shuffled. A missing corpus passes when it will be downloaded on
// demand.
func CheckCorpus(cfg config.Dataset) Result {
	const name = "Movie corpus"

	if !moviedata.Present(cfg.Dir) {
		if cfg.AutoDownload {
			return Result{Name: name, Passed: true, Detail: "not downloaded (fetched on first shuffle)"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("missing in %s and auto_download is off", cfg.Dir)}
	}
	catalog, err := moviedata.Load(cfg.Dir)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	stats := catalog.Stats()
	if stats.Eligible == 0 {
		return Result{Name: name, Detail: "no movies with genres"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d movies, %d with genres", stats.Movies, stats.Eligible)}
}

// CheckHistory opens the history database, creating it when needed.
func CheckHistory(cfg config.History) Result {
	const name = "History"

	if !cfg.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	store, err := history.OpenPath(cfg.Path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := store.Close(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("close: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: cfg.Path}
}

// summarizeLLMError produces a human-readable summary for LLM health check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (LLM API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (LLM API unreachable)"
	}
	return err.Error()
}

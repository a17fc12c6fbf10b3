package moviedata

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"genrecheck/internal/fileutil"
	"genrecheck/internal/logging"
	"genrecheck/internal/services"
)

const (
	lockFileName   = ".genrecheck-dataset.lock"
	lockRetryDelay = 250 * time.Millisecond
)

// FetchOptions configures a corpus download.
type FetchOptions struct {
	URL        string
	Dir        string
	Timeout    time.Duration
	Force      bool
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// FetchResult describes what Fetch did.
type FetchResult struct {
	Dir        string
	Downloaded bool
	Bytes      int64
}

// Present reports whether dir already holds both corpus files.
func Present(dir string) bool {
	return fileutil.Exists(filepath.Join(dir, MetadataFile)) &&
		fileutil.Exists(filepath.Join(dir, SummariesFile))
}

// Fetch downloads the corpus tarball into opts.Dir unless the files are
// already present. Only the metadata and summary files are extracted.
func Fetch(ctx context.Context, opts FetchOptions) (FetchResult, error) {
	result := FetchResult{Dir: opts.Dir}
	if opts.Dir == "" {
		return result, services.Wrap(services.ErrConfiguration, "moviedata", "fetch", "dataset dir required", nil)
	}
	if !opts.Force && Present(opts.Dir) {
		return result, nil
	}
	if opts.URL == "" {
		return result, services.Wrap(services.ErrConfiguration, "moviedata", "fetch", "dataset url required", nil)
	}
	logger := logging.NewComponentLogger(opts.Logger, "dataset")

	parent := filepath.Dir(filepath.Clean(opts.Dir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return result, fmt.Errorf("create dataset parent: %w", err)
	}
	lock := flock.New(filepath.Join(parent, lockFileName))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return result, fmt.Errorf("acquire dataset lock: %w", err)
	}
	if !locked {
		return result, services.Wrap(services.ErrTransient, "moviedata", "fetch", "dataset lock busy", nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release dataset lock", logging.Error(err))
		}
	}()

	// Another process may have finished the download while we waited.
	if !opts.Force && Present(opts.Dir) {
		return result, nil
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	logger.Info("downloading movie corpus", logging.String("url", opts.URL), logging.String("dir", opts.Dir))
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return result, services.Wrap(services.ErrConfiguration, "moviedata", "fetch", "invalid dataset url", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, services.Wrap(services.ErrTimeout, "moviedata", "fetch", "download timed out", err)
		}
		return result, services.Wrap(services.ErrExternalTool, "moviedata", "fetch", "download failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return result, services.Wrap(services.ErrExternalTool, "moviedata", "fetch",
			fmt.Sprintf("download returned %s", resp.Status), nil)
	}

	counter := &countingReader{r: resp.Body}
	if err := extract(counter, opts.Dir); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, services.Wrap(services.ErrTimeout, "moviedata", "fetch", "download timed out", err)
		}
		return result, err
	}
	_, _ = io.Copy(io.Discard, counter)
	result.Downloaded = true
	result.Bytes = counter.n
	logger.Info("movie corpus ready",
		logging.String("dir", opts.Dir),
		logging.Int64("bytes", counter.n),
		logging.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func extract(r io.Reader, dir string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "moviedata", "extract", "archive is not gzip", err)
	}
	defer gz.Close()

	wanted := map[string]bool{MetadataFile: false, SummariesFile: false}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return services.Wrap(services.ErrExternalTool, "moviedata", "extract", "read archive", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name := path.Base(hdr.Name)
		if _, ok := wanted[name]; !ok {
			continue
		}
		if _, err := fileutil.WriteFile(filepath.Join(dir, name), tr); err != nil {
			return fmt.Errorf("extract %s: %w", name, err)
		}
		wanted[name] = true
	}
	for name, found := range wanted {
		if !found {
			return services.Wrap(services.ErrExternalTool, "moviedata", "extract",
				fmt.Sprintf("archive missing %s", name), nil)
		}
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

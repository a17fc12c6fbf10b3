package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	defaultPollInterval = 250 * time.Millisecond
	maxLineBytes        = 1024 * 1024
)

// Matcher reports whether a log line should be returned.
type Matcher func(line string) bool

// RunMatcher keeps lines carrying run_id=<id> in console or JSON format.
func RunMatcher(runID string) Matcher {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil
	}
	console := "run_id=" + runID
	json := `"run_id":"` + runID + `"`
	return func(line string) bool {
		return strings.Contains(line, console) || strings.Contains(line, json)
	}
}

// TailResult holds the lines read and the offset to continue from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail returns up to limit trailing lines accepted by match (all lines when
// match is nil). A missing file yields no lines and offset 0.
func Tail(path string, limit int, match Matcher) (TailResult, error) {
	file, err := openLog(path)
	if err != nil || file == nil {
		return TailResult{}, err
	}
	defer file.Close()

	if limit <= 0 {
		offset, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return TailResult{}, fmt.Errorf("seek log file: %w", err)
		}
		return TailResult{Offset: offset}, nil
	}

	ring := make([]string, limit)
	count, next := 0, 0
	offset, err := scan(file, func(line string) {
		if match != nil && !match(line) {
			return
		}
		ring[next] = line
		next = (next + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return TailResult{}, err
	}

	lines := make([]string, count)
	start := 0
	if count == limit {
		start = next
	}
	for i := range count {
		lines[i] = ring[(start+i)%limit]
	}
	return TailResult{Lines: lines, Offset: offset}, nil
}

// ReadFrom returns matching lines appended after offset. An offset beyond the
// end of the file (after truncation) restarts from the beginning.
func ReadFrom(path string, offset int64, match Matcher) (TailResult, error) {
	file, err := openLog(path)
	if err != nil || file == nil {
		return TailResult{}, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return TailResult{}, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return TailResult{}, fmt.Errorf("seek log file: %w", err)
	}

	var lines []string
	newOffset, err := scan(file, func(line string) {
		if match == nil || match(line) {
			lines = append(lines, line)
		}
	})
	if err != nil {
		return TailResult{}, err
	}
	return TailResult{Lines: lines, Offset: offset + newOffset}, nil
}

// Follow polls path from offset and calls emit for each new matching line
// until ctx is done; it then returns nil. Only complete lines are emitted.
func Follow(ctx context.Context, path string, offset int64, match Matcher, interval time.Duration, emit func(string)) error {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := ReadFrom(path, offset, match)
		if err != nil {
			return err
		}
		for _, line := range result.Lines {
			emit(line)
		}
		offset = result.Offset

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func openLog(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

// scan feeds complete lines to fn and returns the bytes consumed through the
// last newline, leaving a partial trailing line for the next read.
func scan(r io.Reader, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if len(line) > maxLineBytes {
			return consumed, fmt.Errorf("read log file: line exceeds %d bytes", maxLineBytes)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return consumed, nil
			}
			return consumed, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		fn(strings.TrimRight(line, "\r\n"))
	}
}

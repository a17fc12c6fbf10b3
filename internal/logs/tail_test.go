package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"genrecheck/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genrecheck.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append log: %v", err)
	}
}

func TestTailLastLines(t *testing.T) {
	path := writeLog(t, "a\nb\nc\n")

	result, err := logs.Tail(path, 2, nil)
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	if !reflect.DeepEqual(result.Lines, []string{"b", "c"}) {
		t.Fatalf("unexpected lines: %#v", result.Lines)
	}
	if result.Offset != 6 {
		t.Fatalf("expected offset 6, got %d", result.Offset)
	}
}

func TestTailFewerLinesThanLimit(t *testing.T) {
	path := writeLog(t, "only\n")
	result, err := logs.Tail(path, 10, nil)
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	if !reflect.DeepEqual(result.Lines, []string{"only"}) {
		t.Fatalf("unexpected lines: %#v", result.Lines)
	}
}

func TestTailFiltersByRun(t *testing.T) {
	path := writeLog(t, ""+
		"2026-01-02 10:00:00 INFO shuffle: movie picked run_id=abc\n"+
		"2026-01-02 10:00:01 INFO shuffle: movie picked run_id=def\n"+
		`{"msg":"scored","run_id":"abc"}`+"\n")

	result, err := logs.Tail(path, 5, logs.RunMatcher("abc"))
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected two abc lines, got %#v", result.Lines)
	}
	if logs.RunMatcher("  ") != nil {
		t.Fatal("expected nil matcher for empty run id")
	}
}

func TestTailMissingFile(t *testing.T) {
	result, err := logs.Tail(filepath.Join(t.TempDir(), "missing.log"), 5, nil)
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	if len(result.Lines) != 0 || result.Offset != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestReadFromSkipsPartialLine(t *testing.T) {
	path := writeLog(t, "first\nsecond")

	result, err := logs.ReadFrom(path, 0, nil)
	if err != nil {
		t.Fatalf("ReadFrom returned error: %v", err)
	}
	if !reflect.DeepEqual(result.Lines, []string{"first"}) || result.Offset != 6 {
		t.Fatalf("unexpected result %+v", result)
	}

	appendLog(t, path, " half\n")
	result, err = logs.ReadFrom(path, result.Offset, nil)
	if err != nil {
		t.Fatalf("ReadFrom returned error: %v", err)
	}
	if !reflect.DeepEqual(result.Lines, []string{"second half"}) {
		t.Fatalf("unexpected lines %#v", result.Lines)
	}
}

func TestReadFromRestartsAfterTruncation(t *testing.T) {
	path := writeLog(t, "new\n")
	result, err := logs.ReadFrom(path, 500, nil)
	if err != nil {
		t.Fatalf("ReadFrom returned error: %v", err)
	}
	if !reflect.DeepEqual(result.Lines, []string{"new"}) {
		t.Fatalf("unexpected lines %#v", result.Lines)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := writeLog(t, "start\n")
	initial, err := logs.Tail(path, 1, nil)
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, initial.Offset, nil, 10*time.Millisecond, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
			if line == "later" {
				cancel()
			}
		})
	}()

	time.Sleep(50 * time.Millisecond)
	appendLog(t, path, "later\n")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Follow returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("follow did not return")
	}
	mu.Lock()
	defer mu.Unlock()
	if !reflect.DeepEqual(got, []string{"later"}) {
		t.Fatalf("unexpected followed lines %#v", got)
	}
}

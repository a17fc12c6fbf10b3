package testsupport

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CorpusEntry describes one movie in a miniature corpus. NoGenres leaves the
// genre column empty; an empty Summary omits the plot summary line.
type CorpusEntry struct {
	ID       int64
	Title    string
	Genres   []string
	NoGenres bool
	Summary  string
}

// WriteCorpus writes movie.metadata.tsv and plot_summaries.txt into dir.
func WriteCorpus(t testing.TB, dir string, entries []CorpusEntry) {
	t.Helper()

	metadata, summaries := corpusFiles(t, entries)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir corpus dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "movie.metadata.tsv"), metadata, 0o644); err != nil {
		t.Fatalf("write metadata: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plot_summaries.txt"), summaries, 0o644); err != nil {
		t.Fatalf("write summaries: %v", err)
	}
}

// CorpusArchive returns a gzipped tarball laid out like the published corpus
// (MovieSummaries/<file>), plus a README that extraction should ignore.
func CorpusArchive(t testing.TB, entries []CorpusEntry) []byte {
	t.Helper()

	metadata, summaries := corpusFiles(t, entries)
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	if err := tw.WriteHeader(&tar.Header{Name: "MovieSummaries/", Typeflag: tar.TypeDir, Mode: 0o755}); err != nil {
		t.Fatalf("write dir header: %v", err)
	}
	files := []struct {
		name string
		data []byte
	}{
		{"MovieSummaries/README.txt", []byte("CMU Movie Summary Corpus\n")},
		{"MovieSummaries/movie.metadata.tsv", metadata},
		{"MovieSummaries/plot_summaries.txt", summaries},
	}
	for _, file := range files {
		hdr := &tar.Header{Name: file.name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(file.data))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write header %s: %v", file.name, err)
		}
		if _, err := tw.Write(file.data); err != nil {
			t.Fatalf("write %s: %v", file.name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return buf.Bytes()
}

func corpusFiles(t testing.TB, entries []CorpusEntry) ([]byte, []byte) {
	t.Helper()

	var metadata, summaries strings.Builder
	for _, entry := range entries {
		genres := ""
		if !entry.NoGenres {
			genres = nameObject(t, entry.ID, entry.Genres)
		}
		fmt.Fprintf(&metadata, "%d\t/m/%x\t%s\t1999-01-01\t\t100.0\t%s\t%s\t%s\n",
			entry.ID, entry.ID, entry.Title,
			`{"/m/02h40lc": "English Language"}`,
			`{"/m/09c7w0": "United States of America"}`,
			genres,
		)
		if entry.Summary != "" {
			fmt.Fprintf(&summaries, "%d\t%s\n", entry.ID, entry.Summary)
		}
	}
	return []byte(metadata.String()), []byte(summaries.String())
}

// nameObject renders genres as a Freebase name object, keeping order.
func nameObject(t testing.TB, id int64, names []string) string {
	t.Helper()

	parts := make([]string, 0, len(names))
	for i, name := range names {
		key, err := json.Marshal(fmt.Sprintf("/m/%x%02d", id, i))
		if err != nil {
			t.Fatalf("marshal key: %v", err)
		}
		value, err := json.Marshal(name)
		if err != nil {
			t.Fatalf("marshal genre: %v", err)
		}
		parts = append(parts, string(key)+": "+string(value))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

package moviedata

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"genrecheck/internal/services"
)

const (
	metadataColumns = 9
	maxLineBytes    = 8 << 20
)

// Load reads the corpus files from dir.
func Load(dir string) (*Catalog, error) {
	metadata, err := os.Open(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, openError(dir, MetadataFile, err)
	}
	defer metadata.Close()

	summaries, err := os.Open(filepath.Join(dir, SummariesFile))
	if err != nil {
		return nil, openError(dir, SummariesFile, err)
	}
	defer summaries.Close()

	return Parse(metadata, summaries)
}

func openError(dir, name string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrNotFound, "moviedata", "load",
			fmt.Sprintf("%s missing from %s", name, dir), err)
	}
	return fmt.Errorf("open %s: %w", name, err)
}

// Parse builds a catalog from the metadata and summary streams.
func Parse(metadata, summaries io.Reader) (*Catalog, error) {
	catalog := &Catalog{summaries: make(map[int64]string)}

	err := scanLines(metadata, func(line string) {
		movie, ok := parseMovie(line)
		if !ok {
			catalog.skipped++
			return
		}
		catalog.movies = append(catalog.movies, movie)
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", MetadataFile, err)
	}

	err = scanLines(summaries, func(line string) {
		id, summary, ok := parseSummary(line)
		if !ok {
			catalog.skipped++
			return
		}
		catalog.summaries[id] = summary
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", SummariesFile, err)
	}
	return catalog, nil
}

func scanLines(r io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(line)
	}
	return scanner.Err()
}

func parseMovie(line string) (Movie, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < metadataColumns {
		return Movie{}, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return Movie{}, false
	}
	movie := Movie{
		WikipediaID: id,
		FreebaseID:  strings.TrimSpace(fields[1]),
		Title:       strings.TrimSpace(fields[2]),
		ReleaseDate: strings.TrimSpace(fields[3]),
	}
	rawGenres := strings.TrimSpace(fields[8])
	if rawGenres == "" {
		return movie, true
	}
	genres, err := decodeNames(rawGenres)
	if err != nil {
		return Movie{}, false
	}
	movie.Genres = genres
	movie.HasGenres = true
	return movie, true
}

func parseSummary(line string) (int64, string, bool) {
	rawID, summary, ok := strings.Cut(line, "\t")
	if !ok {
		return 0, "", false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, strings.TrimSpace(summary), true
}

// decodeNames reads a Freebase name object ({"/m/id": "Name", ...}) and
// returns its values in file order.
func decodeNames(raw string) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	names := make([]string, 0, 4)
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var name string
		if err := dec.Decode(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return names, nil
}

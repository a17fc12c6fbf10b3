package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"genrecheck/internal/genre"
)

const entryColumns = "id, run_id, movie_id, title, model, llm_response, database_genres_json, identified_json, matching_json, database_count, identified_count, matching_count, is_subset, created_at"

// timestampLayout is fixed width so created_at sorts lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultRecentLimit is used when Recent receives a non-positive limit.
const DefaultRecentLimit = 20

// Entry is one recorded evaluation. DatabaseGenres keeps the corpus display
// order; Identified and Matching are stored sorted.
type Entry struct {
	ID             int64        `json:"id"`
	RunID          string       `json:"run_id"`
	MovieID        int64        `json:"movie_id"`
	Title          string       `json:"title"`
	Model          string       `json:"model,omitempty"`
	LLMResponse    string       `json:"llm_response"`
	DatabaseGenres []string     `json:"database_genres"`
	Identified     []string     `json:"identified"`
	Matching       []string     `json:"matching"`
	Counts         genre.Counts `json:"counts"`
	IsSubset       bool         `json:"is_subset"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Verdict reports the evaluation outcome recorded for the entry.
func (e Entry) Verdict() genre.Verdict {
	if e.IsSubset {
		return genre.VerdictPerfect
	}
	return genre.VerdictPartial
}

// NewEntry builds an entry from an evaluation result.
func NewEntry(runID string, movieID int64, title, model, response string, databaseGenres []string, result genre.Result) Entry {
	return Entry{
		RunID:          runID,
		MovieID:        movieID,
		Title:          title,
		Model:          model,
		LLMResponse:    response,
		DatabaseGenres: append([]string(nil), databaseGenres...),
		Identified:     result.Identified.Sorted(),
		Matching:       result.Matching.Sorted(),
		Counts:         result.Counts,
		IsSubset:       result.IsSubset,
	}
}

// Stats aggregates recorded evaluations.
type Stats struct {
	Total         int        `json:"total"`
	Perfect       int        `json:"perfect"`
	AvgDatabase   float64    `json:"avg_database"`
	AvgIdentified float64    `json:"avg_identified"`
	AvgMatching   float64    `json:"avg_matching"`
	LastRun       *time.Time `json:"last_run,omitempty"`
}

// PerfectRate is the share of runs with a perfect verdict, in percent.
func (s Stats) PerfectRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Perfect) / float64(s.Total) * 100
}

// Record inserts an evaluation. A zero CreatedAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if entry.RunID == "" {
		return Entry{}, errors.New("history entry requires run id")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	databaseJSON, err := marshalList(entry.DatabaseGenres)
	if err != nil {
		return Entry{}, err
	}
	identifiedJSON, err := marshalList(entry.Identified)
	if err != nil {
		return Entry{}, err
	}
	matchingJSON, err := marshalList(entry.Matching)
	if err != nil {
		return Entry{}, err
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO evaluations (
            run_id, movie_id, title, model, llm_response,
            database_genres_json, identified_json, matching_json,
            database_count, identified_count, matching_count, is_subset, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.MovieID,
		entry.Title,
		nullableString(entry.Model),
		nullableString(entry.LLMResponse),
		databaseJSON,
		identifiedJSON,
		matchingJSON,
		entry.Counts.Database,
		entry.Counts.Identified,
		entry.Counts.Matching,
		boolToInt(entry.IsSubset),
		entry.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert evaluation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// Recent returns the newest evaluations first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+entryColumns+` FROM evaluations ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetByRunID returns the evaluation for a run, or nil when none exists.
func (s *Store) GetByRunID(ctx context.Context, runID string) (*Entry, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+entryColumns+` FROM evaluations WHERE run_id = ?`, runID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get evaluation: %w", err)
	}
	return &entry, nil
}

// Stats aggregates all recorded evaluations.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var (
		stats         Stats
		perfect       sql.NullInt64
		avgDatabase   sql.NullFloat64
		avgIdentified sql.NullFloat64
		avgMatching   sql.NullFloat64
		lastRaw       sql.NullString
	)
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1),
            SUM(is_subset),
            AVG(database_count), AVG(identified_count), AVG(matching_count),
            MAX(created_at)
         FROM evaluations`,
	).Scan(&stats.Total, &perfect, &avgDatabase, &avgIdentified, &avgMatching, &lastRaw)
	if err != nil {
		return Stats{}, fmt.Errorf("history stats: %w", err)
	}
	stats.Perfect = int(perfect.Int64)
	stats.AvgDatabase = avgDatabase.Float64
	stats.AvgIdentified = avgIdentified.Float64
	stats.AvgMatching = avgMatching.Float64
	if lastRaw.Valid {
		if last, err := time.Parse(time.RFC3339Nano, lastRaw.String); err == nil {
			stats.LastRun = &last
		}
	}
	return stats, nil
}

// Clear removes every evaluation and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM evaluations`)
	if err != nil {
		return 0, fmt.Errorf("clear evaluations: %w", err)
	}
	return res.RowsAffected()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry          Entry
		model          sql.NullString
		response       sql.NullString
		databaseJSON   string
		identifiedJSON string
		matchingJSON   string
		isSubset       int64
		createdRaw     string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.MovieID,
		&entry.Title,
		&model,
		&response,
		&databaseJSON,
		&identifiedJSON,
		&matchingJSON,
		&entry.Counts.Database,
		&entry.Counts.Identified,
		&entry.Counts.Matching,
		&isSubset,
		&createdRaw,
	); err != nil {
		return Entry{}, err
	}
	entry.Model = model.String
	entry.LLMResponse = response.String
	entry.IsSubset = isSubset != 0

	var err error
	if entry.DatabaseGenres, err = unmarshalList(databaseJSON); err != nil {
		return Entry{}, fmt.Errorf("decode database genres: %w", err)
	}
	if entry.Identified, err = unmarshalList(identifiedJSON); err != nil {
		return Entry{}, fmt.Errorf("decode identified genres: %w", err)
	}
	if entry.Matching, err = unmarshalList(matchingJSON); err != nil {
		return Entry{}, fmt.Errorf("decode matching genres: %w", err)
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return entry, nil
}

func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal genres: %w", err)
	}
	return string(data), nil
}

func unmarshalList(raw string) ([]string, error) {
	values := []string{}
	if raw == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

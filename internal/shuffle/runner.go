package shuffle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"genrecheck/internal/genre"
	"genrecheck/internal/history"
	"genrecheck/internal/logging"
	"genrecheck/internal/moviedata"
	"genrecheck/internal/services"
)

// Classifier returns the model's comma-separated genre answer for a summary.
type Classifier interface {
	ClassifyGenres(ctx context.Context, summary string) (string, error)
}

// Picker chooses one movie from a source.
type Picker interface {
	Pick(src moviedata.Source) (moviedata.Movie, error)
}

// Recorder persists evaluations.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (history.Entry, error)
}

// Options wires a Runner. Source and Classifier are required.
type Options struct {
	Source     moviedata.Source
	Picker     Picker
	Classifier Classifier
	Recorder   Recorder
	Model      string
	Logger     *slog.Logger
	Now        func() time.Time
	NewID      func() string
}

// Runner executes shuffle evaluations.
type Runner struct {
	source     moviedata.Source
	picker     Picker
	classifier Classifier
	recorder   Recorder
	model      string
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// Outcome is everything a single shuffle produced.
type Outcome struct {
	RunID          string          `json:"run_id"`
	Movie          moviedata.Movie `json:"movie"`
	Summary        string          `json:"summary"`
	SummaryMissing bool            `json:"summary_missing,omitempty"`
	DatabaseGenres []string        `json:"database_genres"`
	LLMResponse    string          `json:"llm_response"`
	Model          string          `json:"model,omitempty"`
	Result         genre.Result    `json:"result"`
	Verdict        genre.Verdict   `json:"verdict"`
	Recorded       bool            `json:"recorded"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewRunner validates options and fills defaults.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Source == nil {
		return nil, errors.New("shuffle requires a movie source")
	}
	if opts.Classifier == nil {
		return nil, errors.New("shuffle requires a classifier")
	}
	r := &Runner{
		source:     opts.Source,
		picker:     opts.Picker,
		classifier: opts.Classifier,
		recorder:   opts.Recorder,
		model:      opts.Model,
		logger:     logging.NewComponentLogger(opts.Logger, "shuffle"),
		now:        opts.Now,
		newID:      opts.NewID,
	}
	if r.picker == nil {
		r.picker = moviedata.NewPicker(nil)
	}
	if r.now == nil {
		r.now = func() time.Time { return time.Now().UTC() }
	}
	if r.newID == nil {
		r.newID = uuid.NewString
	}
	return r, nil
}

// Shuffle picks a movie, classifies its summary, and scores the answer.
// A failed history write is logged and leaves Outcome.Recorded false.
func (r *Runner) Shuffle(ctx context.Context) (*Outcome, error) {
	runID := r.newID()
	ctx = services.WithRunID(ctx, runID)

	movie, err := r.picker.Pick(r.source)
	if err != nil {
		return nil, err
	}
	ctx = services.WithMovieID(ctx, movie.WikipediaID)
	logger := logging.WithContext(ctx, r.logger)

	summary, ok := r.source.Summary(movie.WikipediaID)
	if !ok {
		summary = moviedata.SummaryUnavailable
	}
	logger.Info("movie picked",
		logging.String(logging.FieldEventType, "movie_picked"),
		logging.String("title", movie.Title),
		logging.Int("database_genres", len(movie.Genres)),
		logging.Bool("summary_missing", !ok),
	)

	start := time.Now()
	response, err := r.classifier.ClassifyGenres(ctx, summary)
	if err != nil {
		logger.Error("genre classification failed",
			logging.String(logging.FieldEventType, "classify_failed"),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
			logging.Error(err),
		)
		return nil, fmt.Errorf("classify %q: %w", movie.Title, err)
	}

	result := genre.Evaluate(response, movie.Genres)
	outcome := &Outcome{
		RunID:          runID,
		Movie:          movie,
		Summary:        summary,
		SummaryMissing: !ok,
		DatabaseGenres: append([]string(nil), movie.Genres...),
		LLMResponse:    response,
		Model:          r.model,
		Result:         result,
		Verdict:        result.Verdict(),
		CreatedAt:      r.now(),
	}
	logger.Info("genres evaluated",
		logging.String(logging.FieldEventType, "genres_evaluated"),
		logging.String("verdict", string(outcome.Verdict)),
		logging.Int("identified", result.Counts.Identified),
		logging.Int("matching", result.Counts.Matching),
		logging.Duration("elapsed", time.Since(start)),
	)

	if r.recorder != nil {
		entry := history.NewEntry(runID, movie.WikipediaID, movie.Title, r.model, response, movie.Genres, result)
		entry.CreatedAt = outcome.CreatedAt
		if _, err := r.recorder.Record(ctx, entry); err != nil {
			logging.WarnWithContext(logger, "history write failed", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check history.path permissions or disable history"),
				logging.String(logging.FieldImpact, "evaluation not recorded"),
			)
		} else {
			outcome.Recorded = true
		}
	}
	return outcome, nil
}

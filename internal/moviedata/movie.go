package moviedata

import "genrecheck/internal/services"

const (
	// MetadataFile is the tab separated movie metadata file name.
	MetadataFile = "movie.metadata.tsv"
	// SummariesFile is the plot summary file name.
	SummariesFile = "plot_summaries.txt"
	// SummaryUnavailable replaces a missing plot summary.
	SummaryUnavailable = "Summary not available."
)

// ErrNoEligibleMovies indicates the catalog has no movie with genre labels.
var ErrNoEligibleMovies = services.Wrap(services.ErrNotFound, "moviedata", "pick", "no movies with genre labels", nil)

// Movie is one row of the metadata file. HasGenres is false when the genre
// column was empty; an empty object still counts as present.
type Movie struct {
	WikipediaID int64    `json:"wikipedia_id"`
	FreebaseID  string   `json:"freebase_id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Genres      []string `json:"genres"`
	HasGenres   bool     `json:"-"`
}

// Source supplies eligible movies and their summaries.
type Source interface {
	Eligible() []Movie
	Summary(id int64) (string, bool)
}

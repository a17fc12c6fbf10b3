package moviedata

import "github.com/samber/lo"

// Catalog holds the parsed corpus in file order.
type Catalog struct {
	movies    []Movie
	summaries map[int64]string
	skipped   int
}

// Movies returns every parsed movie, eligible or not.
func (c *Catalog) Movies() []Movie {
	return c.movies
}

// Eligible returns the movies that carry a genre column.
func (c *Catalog) Eligible() []Movie {
	return lo.Filter(c.movies, func(m Movie, _ int) bool {
		return m.HasGenres
	})
}

// Summary returns the plot summary for a Wikipedia id.
func (c *Catalog) Summary(id int64) (string, bool) {
	summary, ok := c.summaries[id]
	if !ok || summary == "" {
		return "", false
	}
	return summary, true
}

// Len is the number of parsed movies.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// SummaryCount is the number of parsed plot summaries.
func (c *Catalog) SummaryCount() int {
	return len(c.summaries)
}

// Skipped reports how many lines in either file could not be parsed.
func (c *Catalog) Skipped() int {
	return c.skipped
}

// Stats summarizes the catalog for display. WithSummary counts eligible
// movies that also have a plot summary.
type Stats struct {
	Movies      int `json:"movies"`
	Eligible    int `json:"eligible"`
	WithSummary int `json:"eligible_with_summary"`
	Summaries   int `json:"summaries"`
	Skipped     int `json:"skipped"`
}

// Stats computes catalog counts.
func (c *Catalog) Stats() Stats {
	eligible := c.Eligible()
	return Stats{
		Movies:    len(c.movies),
		Eligible:  len(eligible),
		Summaries: c.SummaryCount(),
		Skipped:   c.skipped,
		WithSummary: lo.CountBy(eligible, func(m Movie) bool {
			_, ok := c.Summary(m.WikipediaID)
			return ok
		}),
	}
}

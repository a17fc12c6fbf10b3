package genre

// Counts holds the post-deduplication set sizes of an evaluation.
type Counts struct {
	Database   int `json:"database"`
	Identified int `json:"identified"`
	Matching   int `json:"matching"`
}

// Verdict is the binary outcome shown to the user.
type Verdict string

const (
	// VerdictPerfect means every identified genre is in the ground truth.
	VerdictPerfect Verdict = "perfect"
	// VerdictPartial means at least one identified genre is not in the
	// ground truth, regardless of how many did match.
	VerdictPartial Verdict = "partial"
)

// Result captures the outcome of comparing identified and ground-truth genres.
type Result struct {
	Identified Set    `json:"identified"`
	Database   Set    `json:"database"`
	Matching   Set    `json:"matching"`
	IsSubset   bool   `json:"is_subset"`
	Counts     Counts `json:"counts"`
}

// Evaluate compares a comma-separated model response against ground-truth
// labels. It never fails; malformed text at worst produces empty sets.
func Evaluate(identifiedRaw string, databaseValues []string) Result {
	return Compare(ParseIdentified(identifiedRaw), NewSet(databaseValues...))
}

// Compare scores two already-normalized sets.
func Compare(identified, database Set) Result {
	if identified == nil {
		identified = Set{}
	}
	if database == nil {
		database = Set{}
	}
	matching := identified.Intersect(database)
	return Result{
		Identified: identified,
		Database:   database,
		Matching:   matching,
		IsSubset:   identified.SubsetOf(database),
		Counts: Counts{
			Database:   database.Len(),
			Identified: identified.Len(),
			Matching:   matching.Len(),
		},
	}
}

// Verdict maps IsSubset to the perfect/partial outcome.
func (r Result) Verdict() Verdict {
	if r.IsSubset {
		return VerdictPerfect
	}
	return VerdictPartial
}

// PerfectMatch reports whether the verdict is VerdictPerfect.
func (r Result) PerfectMatch() bool {
	return r.IsSubset
}

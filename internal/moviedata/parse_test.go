package moviedata_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"genrecheck/internal/moviedata"
	"genrecheck/internal/services"
	"genrecheck/internal/testsupport"
)

const sampleMetadata = "975900\t/m/03vyhn\tGhosts of Mars\t2001-08-24\t14010832\t98.0\t{\"/m/02h40lc\": \"English Language\"}\t{\"/m/09c7w0\": \"United States of America\"}\t{\"/m/01jfsb\": \"Thriller\", \"/m/06n90\": \"Science Fiction\", \"/m/03npn\": \"Horror\"}\n" +
	"3196793\t/m/08yl5d\tGetting Away with Murder\t2000-02-16\t\t95.0\t{}\t{}\t{}\n" +
	"28463795\t/m/0crgdbh\tBrun bitter\t1988\t\t83.0\t{}\t{}\t\n" +
	"not-a-number\t/m/x\tBroken\t\t\t\t{}\t{}\t{}\n" +
	"9363483\t/m/0285_cd\tWhite Of The Eye\t1987\t\t110.0\t{}\t{}\t{\"/m/01jfsb\": \"Thriller\"\n"

const sampleSummaries = "975900\tSet in the second half of the 22nd century, the film depicts Mars.\n" +
	"3196793\t\n" +
	"garbage line\n"

func TestParseReadsMoviesInOrder(t *testing.T) {
	catalog, err := moviedata.Parse(strings.NewReader(sampleMetadata), strings.NewReader(sampleSummaries))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if catalog.Len() != 3 {
		t.Fatalf("expected 3 movies, got %d", catalog.Len())
	}
	// One bad id, one truncated genre object, one summary line without a tab.
	if catalog.Skipped() != 3 {
		t.Fatalf("expected 3 skipped lines, got %d", catalog.Skipped())
	}

	first := catalog.Movies()[0]
	if first.WikipediaID != 975900 || first.Title != "Ghosts of Mars" || first.FreebaseID != "/m/03vyhn" {
		t.Fatalf("unexpected first movie: %+v", first)
	}
	want := []string{"Thriller", "Science Fiction", "Horror"}
	if !reflect.DeepEqual(first.Genres, want) {
		t.Fatalf("expected genres in file order %v, got %v", want, first.Genres)
	}
	if !first.HasGenres {
		t.Fatal("expected first movie to have genres")
	}
}

func TestEligibleRequiresGenreColumn(t *testing.T) {
	catalog, err := moviedata.Parse(strings.NewReader(sampleMetadata), strings.NewReader(sampleSummaries))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	eligible := catalog.Eligible()
	if len(eligible) != 2 {
		t.Fatalf("expected 2 eligible movies, got %d", len(eligible))
	}
	for _, movie := range eligible {
		if movie.Title == "Brun bitter" {
			t.Fatal("movie without genre column must not be eligible")
		}
	}
	empty := eligible[1]
	if empty.Title != "Getting Away with Murder" || len(empty.Genres) != 0 || !empty.HasGenres {
		t.Fatalf("expected empty genre object to stay eligible, got %+v", empty)
	}
}

func TestSummaryLookup(t *testing.T) {
	catalog, err := moviedata.Parse(strings.NewReader(sampleMetadata), strings.NewReader(sampleSummaries))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	summary, ok := catalog.Summary(975900)
	if !ok || !strings.HasPrefix(summary, "Set in the second half") {
		t.Fatalf("unexpected summary %q (ok=%v)", summary, ok)
	}
	if _, ok := catalog.Summary(3196793); ok {
		t.Fatal("blank summary should be reported as missing")
	}
	if _, ok := catalog.Summary(1); ok {
		t.Fatal("unknown id should be missing")
	}

	stats := catalog.Stats()
	if stats.Movies != 3 || stats.Eligible != 2 || stats.WithSummary != 1 || stats.Summaries != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteCorpus(t, dir, []testsupport.CorpusEntry{
		{ID: 1, Title: "Alien", Genres: []string{"Horror", "Science Fiction"}, Summary: "A crew meets a creature."},
		{ID: 2, Title: "Unlabelled", NoGenres: true, Summary: "Nothing to see."},
	})

	catalog, err := moviedata.Load(dir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if catalog.Len() != 2 || len(catalog.Eligible()) != 1 {
		t.Fatalf("unexpected catalog: len=%d eligible=%d", catalog.Len(), len(catalog.Eligible()))
	}
	if got := catalog.Eligible()[0].Genres; !reflect.DeepEqual(got, []string{"Horror", "Science Fiction"}) {
		t.Fatalf("unexpected genres %v", got)
	}
}

func TestLoadMissingFilesIsNotFound(t *testing.T) {
	_, err := moviedata.Load(t.TempDir())
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
